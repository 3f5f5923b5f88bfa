package repository

import (
	"context"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/google/uuid"
)

// ReportRepository persists submitted field reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.ReportSubmission) error
	ListByTarget(ctx context.Context, targetID uuid.UUID, limit int) ([]*domain.ReportSubmission, error)
}

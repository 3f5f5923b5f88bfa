package repository

import (
	"context"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/google/uuid"
)

// TargetRepository reads the target points the current scope may act on.
// Read-only from this service's perspective; ownership stays with the
// registration backend.
type TargetRepository interface {
	List(ctx context.Context, filter domain.TargetFilter) ([]*domain.TargetPoint, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TargetPoint, error)
}

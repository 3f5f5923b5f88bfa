package repository

import (
	"context"
	"time"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/google/uuid"
)

// CacheRepository is the Redis-backed short-lived cache: target listings
// per scope and the latest known position per report session.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	GetTargets(ctx context.Context, filter domain.TargetFilter) ([]*domain.TargetPoint, error)
	SetTargets(ctx context.Context, filter domain.TargetFilter, targets []*domain.TargetPoint, ttl time.Duration) error

	GetLatestPosition(ctx context.Context, sessionID uuid.UUID) (*domain.PositionEvent, error)
	SetLatestPosition(ctx context.Context, event *domain.PositionEvent, ttl time.Duration) error
}

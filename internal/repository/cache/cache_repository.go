package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/domain/repository"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// targetsKey derives a stable cache key from the listing filter.
func targetsKey(filter domain.TargetFilter) string {
	return fmt.Sprintf("targets:%s:%s:%s:%s", filter.Module, filter.Zone, filter.Ward, filter.Status)
}

func (r *cacheRepository) GetTargets(ctx context.Context, filter domain.TargetFilter) ([]*domain.TargetPoint, error) {
	data, err := r.Get(ctx, targetsKey(filter))
	if err != nil || data == nil {
		return nil, err
	}

	var targets []*domain.TargetPoint
	if err := json.Unmarshal(data, &targets); err != nil {
		r.logger.Warn("Failed to unmarshal cached targets", zap.Error(err))
		return nil, nil // treat as a miss, the listing will be refetched
	}
	return targets, nil
}

func (r *cacheRepository) SetTargets(ctx context.Context, filter domain.TargetFilter, targets []*domain.TargetPoint, ttl time.Duration) error {
	data, err := json.Marshal(targets)
	if err != nil {
		return fmt.Errorf("failed to marshal targets: %w", err)
	}
	return r.Set(ctx, targetsKey(filter), data, ttl)
}

func positionKey(sessionID uuid.UUID) string {
	return "position:latest:" + sessionID.String()
}

func (r *cacheRepository) GetLatestPosition(ctx context.Context, sessionID uuid.UUID) (*domain.PositionEvent, error) {
	data, err := r.Get(ctx, positionKey(sessionID))
	if err != nil || data == nil {
		return nil, err
	}

	var event domain.PositionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		r.logger.Warn("Failed to unmarshal cached position",
			zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, nil
	}
	return &event, nil
}

func (r *cacheRepository) SetLatestPosition(ctx context.Context, event *domain.PositionEvent, ttl time.Duration) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal position event: %w", err)
	}
	return r.Set(ctx, positionKey(event.SessionID), data, ttl)
}

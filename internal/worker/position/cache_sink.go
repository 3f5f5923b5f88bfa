package position

import (
	"context"
	"time"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/domain/repository"
)

// CacheSink mirrors the latest position per session into the cache.
// Used by the standalone worker binary, which has no in-memory sessions
// to feed; dashboards and the API read the mirror back on demand.
type CacheSink struct {
	cacheRepo repository.CacheRepository
	ttl       time.Duration
}

func NewCacheSink(cacheRepo repository.CacheRepository, ttl time.Duration) *CacheSink {
	return &CacheSink{cacheRepo: cacheRepo, ttl: ttl}
}

func (s *CacheSink) Observe(ctx context.Context, event domain.PositionEvent) error {
	return s.cacheRepo.SetLatestPosition(ctx, &event, s.ttl)
}

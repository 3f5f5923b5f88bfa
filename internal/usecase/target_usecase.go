package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/domain/repository"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/pkg/routing"
	"github.com/fieldops-microservice/internal/pkg/utils"
	"github.com/fieldops-microservice/internal/usecase/dto"
)

// originNodeID is the graph node representing the caller's position in
// nearest-target selection.
const originNodeID = "origin"

// TargetUseCase - target listing and nearest-target selection
type TargetUseCase struct {
	targetRepo repository.TargetRepository
	cacheRepo  repository.CacheRepository
	logger     *zap.Logger
	cacheTTL   time.Duration
}

func NewTargetUseCase(
	targetRepo repository.TargetRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *TargetUseCase {
	return &TargetUseCase{
		targetRepo: targetRepo,
		cacheRepo:  cacheRepo,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

// List returns targets for the caller's scope, cache-aside with a short
// TTL since listings change rarely within a shift.
func (uc *TargetUseCase) List(ctx context.Context, req dto.ListTargetsRequest) (*dto.ListTargetsResponse, error) {
	filter := domain.TargetFilter{
		Module: domain.Module(req.Module),
		Zone:   req.Zone,
		Ward:   req.Ward,
		Status: domain.TargetStatus(req.Status),
	}

	targets, err := uc.cacheRepo.GetTargets(ctx, filter)
	if err != nil || targets == nil {
		targets, err = uc.targetRepo.List(ctx, filter)
		if err != nil {
			uc.logger.Error("failed to list targets", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		if cacheErr := uc.cacheRepo.SetTargets(ctx, filter, targets, uc.cacheTTL); cacheErr != nil {
			uc.logger.Warn("failed to cache target listing", zap.Error(cacheErr))
		}
	}

	out := make([]dto.TargetDTO, 0, len(targets))
	for _, t := range targets {
		out = append(out, dto.TargetFromDomain(t))
	}
	return &dto.ListTargetsResponse{Targets: out, Total: len(out)}, nil
}

// GetByID returns one target point.
func (uc *TargetUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.TargetPoint, error) {
	target, err := uc.targetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.ErrTargetNotFound
	}
	return target, nil
}

// Nearest picks the closest actionable target to the caller's position.
// Targets without coordinates never participate. Returns a null target
// when no candidate exists; distance ties resolve to the earliest
// listed target so repeated calls stay deterministic.
func (uc *TargetUseCase) Nearest(ctx context.Context, req dto.NearestTargetRequest) (*dto.NearestTargetResponse, error) {
	if !utils.ValidateCoordinates(req.Latitude, req.Longitude) {
		return nil, errors.ErrInvalidCoordinates
	}

	targets, err := uc.targetRepo.List(ctx, domain.TargetFilter{
		Module: domain.Module(req.Module),
		Zone:   req.Zone,
		Ward:   req.Ward,
	})
	if err != nil {
		uc.logger.Error("failed to list targets for nearest selection", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	byID := make(map[string]*domain.TargetPoint)
	candidates := make([]routing.Node, 0, len(targets))
	for _, t := range targets {
		if !t.Actionable() || !t.HasLocation() {
			continue
		}
		id := t.ID.String()
		byID[id] = t
		candidates = append(candidates, routing.Node{
			ID:  id,
			Lat: t.Location.Latitude,
			Lon: t.Location.Longitude,
		})
	}

	origin := routing.Node{ID: originNodeID, Lat: req.Latitude, Lon: req.Longitude}
	nearest, meters := routing.Nearest(origin, candidates)
	if nearest == nil {
		return &dto.NearestTargetResponse{Target: nil}, nil
	}

	targetDTO := dto.TargetFromDomain(byID[nearest.ID])
	return &dto.NearestTargetResponse{
		Target:         &targetDTO,
		DistanceMeters: &meters,
	}, nil
}

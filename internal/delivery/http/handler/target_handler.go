package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/pkg/utils"
	"github.com/fieldops-microservice/internal/pkg/validator"
	"github.com/fieldops-microservice/internal/usecase"
	"github.com/fieldops-microservice/internal/usecase/dto"
)

// TargetHandler serves target listings and nearest-target selection.
type TargetHandler struct {
	targetUC *usecase.TargetUseCase
	logger   *zap.Logger
}

func NewTargetHandler(targetUC *usecase.TargetUseCase, logger *zap.Logger) *TargetHandler {
	return &TargetHandler{
		targetUC: targetUC,
		logger:   logger,
	}
}

// List godoc
// @Summary List target points
// @Description Lists target points within the caller's scope, optionally filtered by module, zone, ward and status.
// @Tags Targets
// @Produce json
// @Param module query string false "Module filter (TASKFORCE, TWINBIN, SWEEPING)"
// @Param zone query string false "Zone filter"
// @Param ward query string false "Ward filter"
// @Param status query string false "Status filter (PENDING, APPROVED, ASSIGNED, REJECTED)"
// @Success 200 {object} utils.SuccessResponse{data=dto.ListTargetsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/targets [get]
func (h *TargetHandler) List(c *fiber.Ctx) error {
	req := dto.ListTargetsRequest{
		Module: c.Query("module"),
		Zone:   c.Query("zone"),
		Ward:   c.Query("ward"),
		Status: c.Query("status"),
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	result, err := h.targetUC.List(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// GetByID godoc
// @Summary Get one target point
// @Tags Targets
// @Produce json
// @Param id path string true "Target ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.TargetDTO}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/targets/{id} [get]
func (h *TargetHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("id must be a UUID"))
	}

	target, err := h.targetUC.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.TargetFromDomain(target), nil)
}

// Nearest godoc
// @Summary Nearest target to a position
// @Description Picks the closest actionable target to the given position. Returns a null target when no candidate exists.
// @Tags Targets
// @Produce json
// @Param lat query number true "Origin latitude"
// @Param lon query number true "Origin longitude"
// @Param module query string false "Module filter"
// @Param zone query string false "Zone filter"
// @Param ward query string false "Ward filter"
// @Success 200 {object} utils.SuccessResponse{data=dto.NearestTargetResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/targets/nearest [get]
func (h *TargetHandler) Nearest(c *fiber.Ctx) error {
	req := dto.NearestTargetRequest{
		Latitude:  c.QueryFloat("lat"),
		Longitude: c.QueryFloat("lon"),
		Module:    c.Query("module"),
		Zone:      c.Query("zone"),
		Ward:      c.Query("ward"),
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	result, err := h.targetUC.Nearest(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

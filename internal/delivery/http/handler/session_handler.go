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

// SessionHandler serves the report session lifecycle.
type SessionHandler struct {
	reportUC *usecase.ReportUseCase
	logger   *zap.Logger
}

func NewSessionHandler(reportUC *usecase.ReportUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		reportUC: reportUC,
		logger:   logger,
	}
}

func (h *SessionHandler) sessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidRequest.WithMessage("session id must be a UUID")
	}
	return id, nil
}

// Create godoc
// @Summary Open a report session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Target to report against"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	result, err := h.reportUC.CreateSession(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Get godoc
// @Summary Get report session state
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reportUC.GetSession(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// RecordPosition godoc
// @Summary Push a device position
// @Description Records the device position for the session's fence check and publishes it to the position stream.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.PositionRequest true "Device position"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/position [post]
func (h *SessionHandler) RecordPosition(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithMessage(err.Error()))
	}

	result, err := h.reportUC.RecordPosition(c.Context(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// RecordAnswer godoc
// @Summary Record a questionnaire answer
// @Description Applies one answer mutation: a primary value, a sub-field value or a photo slot.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Answer mutation"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/answers [post]
func (h *SessionHandler) RecordAnswer(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	result, err := h.reportUC.RecordAnswer(c.Context(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// ReportContext godoc
// @Summary Submission readiness for a session
// @Description Tells the app whether submit would pass the fence check right now, and issues a proximity token for modules that require one.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportContextResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/report-context [get]
func (h *SessionHandler) ReportContext(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reportUC.ReportContext(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Submit godoc
// @Summary Submit the report
// @Description Runs the submission preconditions in order: fence check, questionnaire validation, persistence. Failures leave the session intact for a retry.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitRequest false "Submission payload"
// @Success 200 {object} utils.SuccessResponse{data=dto.SubmitResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SubmitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid request body"))
		}
	}

	result, err := h.reportUC.Submit(c.Context(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// ReportHistory godoc
// @Summary List stored reports for a target
// @Tags Reports
// @Produce json
// @Param id path string true "Target ID"
// @Param limit query int false "Maximum reports to return (default 20)"
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportHistoryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/targets/{id}/reports [get]
func (h *SessionHandler) ReportHistory(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("target id must be a UUID"))
	}

	result, err := h.reportUC.History(c.Context(), targetID, c.QueryInt("limit"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// Cancel godoc
// @Summary Abandon a report session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.reportUC.CancelSession(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"cancelled": true}, nil)
}

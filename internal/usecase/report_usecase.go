package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/domain/repository"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/pkg/utils"
	"github.com/fieldops-microservice/internal/session"
	"github.com/fieldops-microservice/internal/tracker"
	"github.com/fieldops-microservice/internal/usecase/dto"
)

// positionTTL bounds how long a cached latest-position entry stays
// around after the session stops pushing.
const positionTTL = 30 * time.Minute

// ReportUseCase - report session lifecycle: open, track, answer, submit
type ReportUseCase struct {
	sessions   *session.Manager
	targetRepo repository.TargetRepository
	reportRepo repository.ReportRepository
	cacheRepo  repository.CacheRepository
	streamRepo repository.StreamRepository
	profiles   *domain.ModuleProfiles
	proximity  *ProximityIssuer
	logger     *zap.Logger
}

func NewReportUseCase(
	sessions *session.Manager,
	targetRepo repository.TargetRepository,
	reportRepo repository.ReportRepository,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	profiles *domain.ModuleProfiles,
	proximity *ProximityIssuer,
	logger *zap.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		sessions:   sessions,
		targetRepo: targetRepo,
		reportRepo: reportRepo,
		cacheRepo:  cacheRepo,
		streamRepo: streamRepo,
		profiles:   profiles,
		proximity:  proximity,
		logger:     logger,
	}
}

// CreateSession opens a report session against a target. A target
// without coordinates still gets a session, with the distance check
// marked not applicable; submission will then always fail the fence
// precondition, which is the fail-closed behavior the flow wants.
func (uc *ReportUseCase) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithMessage("target_id must be a UUID")
	}

	target, err := uc.targetRepo.GetByID(ctx, targetID)
	if err != nil {
		uc.logger.Error("failed to load target", zap.Error(err), zap.String("target_id", req.TargetID))
		return nil, errors.ErrDatabaseError
	}
	if target == nil {
		return nil, errors.ErrTargetNotFound
	}
	if !target.Actionable() {
		return nil, errors.ErrInvalidRequest.WithMessage("target is not open for reporting")
	}

	profile, ok := uc.profiles.Get(target.Module)
	if !ok {
		return nil, errors.ErrInvalidRequest.WithMessage("unknown module " + string(target.Module))
	}

	s := uc.sessions.Create(target, profile)
	return uc.sessionResponse(s), nil
}

// GetSession returns the current state of a session.
func (uc *ReportUseCase) GetSession(_ context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	s, err := uc.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return uc.sessionResponse(s), nil
}

// CancelSession ends a session without submitting. Answers are gone;
// this is the explicit abandon path, not an error path.
func (uc *ReportUseCase) CancelSession(_ context.Context, id uuid.UUID) error {
	if _, err := uc.sessions.Get(id); err != nil {
		return err
	}
	uc.sessions.Remove(id)
	return nil
}

// History returns recent stored submissions for a target, newest first.
func (uc *ReportUseCase) History(ctx context.Context, targetID uuid.UUID, limit int) (*dto.ReportHistoryResponse, error) {
	reports, err := uc.reportRepo.ListByTarget(ctx, targetID, limit)
	if err != nil {
		uc.logger.Error("failed to list reports", zap.Error(err), zap.String("target_id", targetID.String()))
		return nil, errors.ErrDatabaseError
	}

	resp := &dto.ReportHistoryResponse{
		Reports: make([]dto.ReportDTO, 0, len(reports)),
		Total:   len(reports),
	}
	for _, r := range reports {
		resp.Reports = append(resp.Reports, dto.ReportDTO{
			ID:          r.ID.String(),
			TargetID:    r.TargetID.String(),
			Module:      string(r.Module),
			Latitude:    r.Coordinate.Latitude,
			Longitude:   r.Coordinate.Longitude,
			PhotoURLs:   r.PhotoURLs(),
			SubmittedAt: r.SubmittedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// RecordPosition feeds one device position into the session tracker,
// mirrors it into the cache and publishes it onto the position stream
// for downstream consumers.
func (uc *ReportUseCase) RecordPosition(ctx context.Context, id uuid.UUID, req dto.PositionRequest) (*dto.SessionResponse, error) {
	s, err := uc.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if !utils.ValidateCoordinates(req.Latitude, req.Longitude) {
		return nil, errors.ErrInvalidCoordinates
	}

	event := domain.PositionEvent{
		SessionID: id,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		Timestamp: time.Now().UTC(),
	}
	s.Tracker.Observe(event.Latitude, event.Longitude, event.Timestamp)
	s.Touch()

	if err := uc.cacheRepo.SetLatestPosition(ctx, &event, positionTTL); err != nil {
		uc.logger.Warn("failed to cache latest position", zap.Error(err))
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamPositionUpdate, event); err != nil {
		uc.logger.Warn("failed to publish position event", zap.Error(err))
	}
	return uc.sessionResponse(s), nil
}

// RecordAnswer applies one answer mutation: the primary value, a
// sub-field, or a photo slot, depending on which parts are present.
func (uc *ReportUseCase) RecordAnswer(_ context.Context, id uuid.UUID, req dto.AnswerRequest) (*dto.SessionResponse, error) {
	s, err := uc.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if s.Submitted() {
		return nil, errors.ErrSessionAlreadySubmitted
	}

	switch {
	case req.Value != nil:
		err = s.Answers.SetAnswer(req.QuestionID, *req.Value)
	case req.PhotoSlot != nil && req.PhotoURL != nil:
		err = s.Answers.SetPhoto(req.QuestionID, req.FieldKey, *req.PhotoSlot, *req.PhotoURL)
	case req.FieldValue != nil:
		err = s.Answers.SetSubField(req.QuestionID, req.FieldKey, *req.FieldValue)
	default:
		return nil, errors.ErrInvalidRequest.WithMessage("answer request carries no value, field or photo")
	}
	if err != nil {
		return nil, errors.ErrUnknownQuestion.WithMessage(err.Error())
	}

	s.Touch()
	return uc.sessionResponse(s), nil
}

// ReportContext tells the app whether submit would currently pass the
// fence check, and, for modules that demand one, issues a proximity
// token while the device is inside the fence.
func (uc *ReportUseCase) ReportContext(_ context.Context, id uuid.UUID) (*dto.ReportContextResponse, error) {
	s, err := uc.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReportContextResponse{
		SessionID:   s.ID.String(),
		AnswerState: string(s.Answers.State()),
	}
	if r := s.Tracker.Reading(); r != nil {
		resp.Distance = &dto.DistanceDTO{Meters: r.Meters, WithinFence: r.WithinFence}
		resp.AllowedToSubmit = r.WithinFence
		if r.WithinFence && s.Profile.RequireProximityToken {
			resp.ProximityToken = uc.proximity.Issue(s.Target.ID)
		}
	}
	return resp, nil
}

// Submit runs the submission preconditions in fixed order: fence first,
// then questionnaire validation, then persistence. A failure at any
// stage leaves the session and its answers untouched for a retry.
func (uc *ReportUseCase) Submit(ctx context.Context, id uuid.UUID, req dto.SubmitRequest) (*dto.SubmitResponse, error) {
	s, err := uc.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.BeginSubmit(); err != nil {
		return nil, err
	}

	succeeded := false
	defer func() { s.FinishSubmit(succeeded) }()

	// Fence precondition. No reading, failed source, or a target
	// without coordinates all fail closed before answers are looked at.
	reading := s.Tracker.Reading()
	if reading == nil {
		if s.Tracker.Status() == tracker.StatusNotApplicable {
			return nil, errors.ErrTargetHasNoLocation
		}
		return nil, errors.ErrLocationUnavailable
	}
	if !reading.WithinFence {
		return nil, errors.ErrOutOfRange.WithDetails(map[string]interface{}{
			"distance_meters": reading.Meters,
			"fence_radius_m":  s.Profile.FenceRadiusMeters,
		})
	}
	if s.Profile.RequireProximityToken {
		if err := uc.proximity.Verify(req.ProximityToken, s.Target.ID); err != nil {
			return nil, err
		}
	}

	// Questionnaire precondition, first failure wins.
	if unmet := s.Answers.Validate(); unmet != nil {
		return nil, errors.ErrIncompleteAnswer.WithMessage(unmet.Message).WithDetails(map[string]interface{}{
			"question_id": unmet.QuestionID,
			"field_key":   unmet.FieldKey,
		})
	}

	coordinate := s.Tracker.LastCoordinate()
	report := &domain.ReportSubmission{
		ID:          uuid.New(),
		TargetID:    s.Target.ID,
		Module:      s.Profile.Module,
		Coordinate:  *coordinate,
		Answers:     s.Answers.Snapshot(),
		SubmittedAt: time.Now().UTC(),
	}

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		uc.logger.Error("failed to store report, answers preserved",
			zap.Error(err),
			zap.String("session_id", s.ID.String()),
			zap.String("target_id", s.Target.ID.String()))
		return nil, errors.ErrSubmissionFailed
	}

	succeeded = true
	uc.publishSubmitted(ctx, report)
	uc.sessions.Remove(s.ID)

	uc.logger.Info("report submitted",
		zap.String("report_id", report.ID.String()),
		zap.String("target_id", report.TargetID.String()),
		zap.String("module", string(report.Module)))

	return &dto.SubmitResponse{
		ReportID:    report.ID.String(),
		TargetID:    report.TargetID.String(),
		SubmittedAt: report.SubmittedAt.Format(time.RFC3339),
	}, nil
}

// publishSubmitted notifies downstream consumers. The report is already
// durable at this point, so a publish failure only logs.
func (uc *ReportUseCase) publishSubmitted(ctx context.Context, report *domain.ReportSubmission) {
	event := domain.ReportSubmittedEvent{
		ReportID:    report.ID,
		TargetID:    report.TargetID,
		Module:      report.Module,
		SubmittedAt: report.SubmittedAt,
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamReportSubmitted, event); err != nil {
		uc.logger.Warn("failed to publish report submitted event",
			zap.Error(err),
			zap.String("report_id", report.ID.String()))
	}
}

func (uc *ReportUseCase) sessionResponse(s *session.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:            s.ID.String(),
		Target:        dto.TargetFromDomain(s.Target),
		Module:        string(s.Profile.Module),
		FenceRadiusM:  s.Profile.FenceRadiusMeters,
		TrackerStatus: string(s.Tracker.Status()),
		AnswerState:   string(s.Answers.State()),
		Questionnaire: s.Profile.Questionnaire.Name,
	}
	if r := s.Tracker.Reading(); r != nil {
		resp.Distance = &dto.DistanceDTO{Meters: r.Meters, WithinFence: r.WithinFence}
	}
	if unmet := s.Answers.Validate(); unmet != nil && s.Answers.State() != domain.StateEmpty {
		resp.Unmet = &dto.UnmetRequirement{
			QuestionID: unmet.QuestionID,
			FieldKey:   unmet.FieldKey,
			Message:    unmet.Message,
		}
	}
	return resp
}

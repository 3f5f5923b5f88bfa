package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/session"
	"github.com/fieldops-microservice/internal/usecase"
	"github.com/fieldops-microservice/internal/usecase/dto"
)

// MockTargetRepository is a mock of TargetRepository
type MockTargetRepository struct {
	mock.Mock
}

func (m *MockTargetRepository) List(ctx context.Context, filter domain.TargetFilter) ([]*domain.TargetPoint, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TargetPoint), args.Error(1)
}

func (m *MockTargetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TargetPoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TargetPoint), args.Error(1)
}

// MockReportRepository is a mock of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.ReportSubmission) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) ListByTarget(ctx context.Context, targetID uuid.UUID, limit int) ([]*domain.ReportSubmission, error) {
	args := m.Called(ctx, targetID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReportSubmission), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetTargets(ctx context.Context, filter domain.TargetFilter) ([]*domain.TargetPoint, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TargetPoint), args.Error(1)
}

func (m *MockCacheRepository) SetTargets(ctx context.Context, filter domain.TargetFilter, targets []*domain.TargetPoint, ttl time.Duration) error {
	args := m.Called(ctx, filter, targets, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetLatestPosition(ctx context.Context, sessionID uuid.UUID) (*domain.PositionEvent, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PositionEvent), args.Error(1)
}

func (m *MockCacheRepository) SetLatestPosition(ctx context.Context, event *domain.PositionEvent, ttl time.Duration) error {
	args := m.Called(ctx, event, ttl)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type reportFixture struct {
	uc         *usecase.ReportUseCase
	sessions   *session.Manager
	targetRepo *MockTargetRepository
	reportRepo *MockReportRepository
	cacheRepo  *MockCacheRepository
	streamRepo *MockStreamRepository
	proximity  *usecase.ProximityIssuer
}

func newReportFixture() *reportFixture {
	logger := zap.NewNop()
	f := &reportFixture{
		sessions:   session.NewManager(time.Hour, logger),
		targetRepo: &MockTargetRepository{},
		reportRepo: &MockReportRepository{},
		cacheRepo:  &MockCacheRepository{},
		streamRepo: &MockStreamRepository{},
		proximity:  usecase.NewProximityIssuer("test-secret", 10*time.Minute),
	}
	f.uc = usecase.NewReportUseCase(
		f.sessions,
		f.targetRepo,
		f.reportRepo,
		f.cacheRepo,
		f.streamRepo,
		domain.NewModuleProfiles(100, 50),
		f.proximity,
		logger,
	)
	return f
}

func newTarget(module domain.Module, withLocation bool) *domain.TargetPoint {
	t := &domain.TargetPoint{
		ID:     uuid.New(),
		Name:   "SCP-7 Kothrud",
		Module: module,
		Zone:   "Zone 2",
		Ward:   "Ward 14",
		Status: domain.TargetStatusApproved,
	}
	if withLocation {
		t.Location = &domain.Coordinate{Latitude: 18.5074, Longitude: 73.8077}
	}
	return t
}

// openSession creates a session through the use case and returns its id.
func openSession(t *testing.T, f *reportFixture, target *domain.TargetPoint) uuid.UUID {
	t.Helper()
	f.targetRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil).Once()

	resp, err := f.uc.CreateSession(context.Background(), dto.CreateSessionRequest{TargetID: target.ID.String()})
	require.NoError(t, err)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	return id
}

// moveInside pushes a position on top of the target, inside any fence.
func moveInside(t *testing.T, f *reportFixture, id uuid.UUID, target *domain.TargetPoint) {
	t.Helper()
	f.cacheRepo.On("SetLatestPosition", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.streamRepo.On("PublishToStream", mock.Anything, domain.StreamPositionUpdate, mock.Anything).Return(nil).Once()

	_, err := f.uc.RecordPosition(context.Background(), id, dto.PositionRequest{
		Latitude:  target.Location.Latitude,
		Longitude: target.Location.Longitude,
	})
	require.NoError(t, err)
}

func answerValue(v string) dto.AnswerRequest {
	return dto.AnswerRequest{Value: &v}
}

// fillTwinbin answers the full ten-question checklist.
func fillTwinbin(t *testing.T, f *reportFixture, id uuid.UUID) {
	t.Helper()
	for i := 1; i <= 10; i++ {
		req := answerValue(domain.AnswerYes)
		req.QuestionID = twinbinQuestionID(i)
		_, err := f.uc.RecordAnswer(context.Background(), id, req)
		require.NoError(t, err)
	}
}

func twinbinQuestionID(n int) string {
	return domain.TwinbinChecklist().Questions[n-1].ID
}

func TestReportUseCase_CreateSession(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	f.targetRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil).Once()

	resp, err := f.uc.CreateSession(context.Background(), dto.CreateSessionRequest{TargetID: target.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "TASKFORCE", resp.Module)
	assert.Equal(t, 100.0, resp.FenceRadiusM)
	assert.Equal(t, "IDLE", resp.TrackerStatus)
	assert.Equal(t, "EMPTY", resp.AnswerState)
	f.targetRepo.AssertExpectations(t)
}

func TestReportUseCase_CreateSessionTargetNotFound(t *testing.T) {
	f := newReportFixture()
	id := uuid.New()
	f.targetRepo.On("GetByID", mock.Anything, id).Return(nil, nil).Once()

	_, err := f.uc.CreateSession(context.Background(), dto.CreateSessionRequest{TargetID: id.String()})
	assert.ErrorIs(t, err, errors.ErrTargetNotFound)
}

func TestReportUseCase_CreateSessionRejectedTarget(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	target.Status = domain.TargetStatusRejected
	f.targetRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil).Once()

	_, err := f.uc.CreateSession(context.Background(), dto.CreateSessionRequest{TargetID: target.ID.String()})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_REQUEST", appErr.Code)
}

func TestReportUseCase_SubmitWithoutLocationFailsClosed(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	id := openSession(t, f, target)

	_, err := f.uc.Submit(context.Background(), id, dto.SubmitRequest{})

	assert.ErrorIs(t, err, errors.ErrLocationUnavailable)
	// Fence runs before validation and persistence: the store must
	// never have been touched.
	f.reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReportUseCase_SubmitOutOfRange(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	id := openSession(t, f, target)

	f.cacheRepo.On("SetLatestPosition", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.streamRepo.On("PublishToStream", mock.Anything, domain.StreamPositionUpdate, mock.Anything).Return(nil).Once()
	// Roughly 1.1km away from the target.
	_, err := f.uc.RecordPosition(context.Background(), id, dto.PositionRequest{
		Latitude:  target.Location.Latitude + 0.01,
		Longitude: target.Location.Longitude,
	})
	require.NoError(t, err)

	_, err = f.uc.Submit(context.Background(), id, dto.SubmitRequest{})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "OUT_OF_RANGE", appErr.Code)
	f.reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReportUseCase_SubmitTargetWithoutCoordinates(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, false)
	id := openSession(t, f, target)

	_, err := f.uc.Submit(context.Background(), id, dto.SubmitRequest{})

	assert.ErrorIs(t, err, errors.ErrTargetHasNoLocation)
}

func TestReportUseCase_SubmitIncompleteAnswers(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	id := openSession(t, f, target)
	moveInside(t, f, id, target)

	req := answerValue(domain.AnswerYes)
	req.QuestionID = "q1"
	_, err := f.uc.RecordAnswer(context.Background(), id, req)
	require.NoError(t, err)

	_, err = f.uc.Submit(context.Background(), id, dto.SubmitRequest{})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "INCOMPLETE_ANSWER", appErr.Code)
	assert.Contains(t, appErr.Message, "upload inside photo")
	f.reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	// Session survives the failed submit with answers intact.
	resp, err := f.uc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "PARTIALLY_ANSWERED", resp.AnswerState)
}

func TestReportUseCase_SubmitTwinbinHappyPath(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTwinbin, true)
	id := openSession(t, f, target)
	moveInside(t, f, id, target)
	fillTwinbin(t, f, id)

	token := f.proximity.Issue(target.ID)
	f.reportRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.ReportSubmission) bool {
		return r.TargetID == target.ID && r.Module == domain.ModuleTwinbin && len(r.Answers) == 10
	})).Return(nil).Once()
	f.streamRepo.On("PublishToStream", mock.Anything, domain.StreamReportSubmitted, mock.Anything).Return(nil).Once()

	resp, err := f.uc.Submit(context.Background(), id, dto.SubmitRequest{ProximityToken: token})
	require.NoError(t, err)
	assert.Equal(t, target.ID.String(), resp.TargetID)
	assert.NotEmpty(t, resp.ReportID)

	// The session is gone after a successful submit.
	_, err = f.uc.GetSession(context.Background(), id)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	f.reportRepo.AssertExpectations(t)
	f.streamRepo.AssertExpectations(t)
}

func TestReportUseCase_SubmitTwinbinWithoutToken(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTwinbin, true)
	id := openSession(t, f, target)
	moveInside(t, f, id, target)
	fillTwinbin(t, f, id)

	_, err := f.uc.Submit(context.Background(), id, dto.SubmitRequest{})

	assert.ErrorIs(t, err, errors.ErrInvalidProximityToken)
	f.reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReportUseCase_SubmitStoreFailurePreservesAnswers(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTwinbin, true)
	id := openSession(t, f, target)
	moveInside(t, f, id, target)
	fillTwinbin(t, f, id)
	token := f.proximity.Issue(target.ID)

	f.reportRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := f.uc.Submit(context.Background(), id, dto.SubmitRequest{ProximityToken: token})
	assert.ErrorIs(t, err, errors.ErrSubmissionFailed)

	// Nothing was published and the answers are still there.
	f.streamRepo.AssertNotCalled(t, "PublishToStream", mock.Anything, domain.StreamReportSubmitted, mock.Anything)
	resp, err := f.uc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "VALID", resp.AnswerState)

	// A retry with a healthy store goes through.
	f.reportRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.streamRepo.On("PublishToStream", mock.Anything, domain.StreamReportSubmitted, mock.Anything).Return(nil).Once()

	_, err = f.uc.Submit(context.Background(), id, dto.SubmitRequest{ProximityToken: token})
	assert.NoError(t, err)
}

func TestReportUseCase_DoubleSubmit(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTwinbin, true)
	id := openSession(t, f, target)
	moveInside(t, f, id, target)
	fillTwinbin(t, f, id)
	token := f.proximity.Issue(target.ID)

	f.reportRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.streamRepo.On("PublishToStream", mock.Anything, domain.StreamReportSubmitted, mock.Anything).Return(nil).Once()

	_, err := f.uc.Submit(context.Background(), id, dto.SubmitRequest{ProximityToken: token})
	require.NoError(t, err)

	// Session removal makes the duplicate visible as not-found; either
	// way no second report row can appear.
	_, err = f.uc.Submit(context.Background(), id, dto.SubmitRequest{ProximityToken: token})
	assert.Error(t, err)
	f.reportRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestReportUseCase_RecordPositionPublishes(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	id := openSession(t, f, target)

	f.cacheRepo.On("SetLatestPosition", mock.Anything, mock.MatchedBy(func(e *domain.PositionEvent) bool {
		return e.SessionID == id
	}), mock.Anything).Return(nil).Once()
	f.streamRepo.On("PublishToStream", mock.Anything, domain.StreamPositionUpdate, mock.Anything).Return(nil).Once()

	resp, err := f.uc.RecordPosition(context.Background(), id, dto.PositionRequest{
		Latitude:  target.Location.Latitude,
		Longitude: target.Location.Longitude,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRACKING", resp.TrackerStatus)
	require.NotNil(t, resp.Distance)
	assert.True(t, resp.Distance.WithinFence)

	f.cacheRepo.AssertExpectations(t)
	f.streamRepo.AssertExpectations(t)
}

func TestReportUseCase_RecordPositionInvalidCoordinates(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	id := openSession(t, f, target)

	_, err := f.uc.RecordPosition(context.Background(), id, dto.PositionRequest{
		Latitude:  95.0,
		Longitude: 73.8,
	})
	assert.ErrorIs(t, err, errors.ErrInvalidCoordinates)
}

func TestReportUseCase_ReportContextIssuesToken(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTwinbin, true)
	id := openSession(t, f, target)

	// Before any position: submit not allowed, no token.
	resp, err := f.uc.ReportContext(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, resp.AllowedToSubmit)
	assert.Empty(t, resp.ProximityToken)

	moveInside(t, f, id, target)

	resp, err = f.uc.ReportContext(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, resp.AllowedToSubmit)
	require.NotEmpty(t, resp.ProximityToken)
	assert.NoError(t, f.proximity.Verify(resp.ProximityToken, target.ID))
}

func TestReportUseCase_CancelSession(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	id := openSession(t, f, target)

	require.NoError(t, f.uc.CancelSession(context.Background(), id))
	_, err := f.uc.GetSession(context.Background(), id)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	assert.ErrorIs(t, f.uc.CancelSession(context.Background(), id), errors.ErrSessionNotFound)
}

func TestReportUseCase_HistoryListsStoredReports(t *testing.T) {
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)

	stored := []*domain.ReportSubmission{
		{
			ID:         uuid.New(),
			TargetID:   target.ID,
			Module:     domain.ModuleTaskforce,
			Coordinate: domain.Coordinate{Latitude: 18.5204, Longitude: 73.8567},
			Answers: map[string]domain.Answer{
				"q1": {Value: "YES", Photos: map[string][]string{"insidePhotos": {"https://media.example.com/p1.jpg"}}},
			},
			SubmittedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		},
	}
	f.reportRepo.On("ListByTarget", mock.Anything, target.ID, 0).Return(stored, nil).Once()

	resp, err := f.uc.History(context.Background(), target.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, target.ID.String(), resp.Reports[0].TargetID)
	assert.Equal(t, []string{"https://media.example.com/p1.jpg"}, resp.Reports[0].PhotoURLs)
	assert.Equal(t, "2026-03-14T10:00:00Z", resp.Reports[0].SubmittedAt)
}

func TestReportUseCase_HistoryDatabaseFailure(t *testing.T) {
	f := newReportFixture()
	id := uuid.New()
	f.reportRepo.On("ListByTarget", mock.Anything, id, 0).Return(nil, assert.AnError).Once()

	_, err := f.uc.History(context.Background(), id, 0)
	assert.ErrorIs(t, err, errors.ErrDatabaseError)
}

func TestReportUseCase_ConcurrentAnswerPositionAndReads(t *testing.T) {
	// One session hammered from four directions at once: answer
	// mutations, position pushes, session reads and report-context
	// reads, as parallel fiber handlers would do.
	f := newReportFixture()
	target := newTarget(domain.ModuleTaskforce, true)
	id := openSession(t, f, target)

	f.cacheRepo.On("SetLatestPosition", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.streamRepo.On("PublishToStream", mock.Anything, domain.StreamPositionUpdate, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			<-start
			for i := 0; i < 100; i++ {
				switch g {
				case 0:
					value := domain.AnswerYes
					if i%2 == 1 {
						value = domain.AnswerNo
					}
					req := answerValue(value)
					req.QuestionID = "q1"
					_, err := f.uc.RecordAnswer(context.Background(), id, req)
					assert.NoError(t, err)
				case 1:
					_, err := f.uc.RecordPosition(context.Background(), id, dto.PositionRequest{
						Latitude:  target.Location.Latitude,
						Longitude: target.Location.Longitude,
					})
					assert.NoError(t, err)
				case 2:
					_, err := f.uc.GetSession(context.Background(), id)
					assert.NoError(t, err)
				case 3:
					_, err := f.uc.ReportContext(context.Background(), id)
					assert.NoError(t, err)
				}
			}
		}(g)
	}
	close(start)
	wg.Wait()

	resp, err := f.uc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "PARTIALLY_ANSWERED", resp.AnswerState)
	assert.True(t, resp.Distance.WithinFence)
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/tracker"
)

var testProfiles = domain.NewModuleProfiles(100, 50)

func testTarget(withLocation bool) *domain.TargetPoint {
	t := &domain.TargetPoint{
		ID:     uuid.New(),
		Name:   "SCP-12 Shivajinagar",
		Module: domain.ModuleTaskforce,
		Zone:   "Zone 1",
		Ward:   "Ward 8",
		Status: domain.TargetStatusApproved,
	}
	if withLocation {
		t.Location = &domain.Coordinate{Latitude: 18.5204, Longitude: 73.8567}
	}
	return t
}

func taskforceProfile(t *testing.T) domain.ModuleProfile {
	t.Helper()
	p, ok := testProfiles.Get(domain.ModuleTaskforce)
	require.True(t, ok)
	return p
}

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())
	s := m.Create(testTarget(true), taskforceProfile(t))

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, tracker.StatusIdle, s.Tracker.Status())
	assert.Equal(t, domain.StateEmpty, s.Answers.State())
	assert.Equal(t, 1, m.Count())
}

func TestManager_GetUnknownSession(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())

	_, err := m.Get(uuid.New())
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestManager_CreateForTargetWithoutLocation(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())
	s := m.Create(testTarget(false), taskforceProfile(t))

	assert.Equal(t, tracker.StatusNotApplicable, s.Tracker.Status())
}

func TestManager_RemoveClosesTracker(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())
	s := m.Create(testTarget(true), taskforceProfile(t))

	m.Remove(s.ID)
	m.Remove(s.ID) // second remove is a no-op

	assert.Equal(t, tracker.StatusClosed, s.Tracker.Status())
	_, err := m.Get(s.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestManager_ObserveRoutesToTracker(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())
	s := m.Create(testTarget(true), taskforceProfile(t))

	err := m.Observe(context.Background(), domain.PositionEvent{
		SessionID: s.ID,
		Latitude:  18.5204,
		Longitude: 73.8567,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, s.Tracker.WithinFence())
}

func TestManager_ObserveWithoutFixFailsClosed(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())
	s := m.Create(testTarget(true), taskforceProfile(t))
	s.Tracker.Observe(18.5204, 73.8567, time.Now())
	require.True(t, s.Tracker.WithinFence())

	err := m.Observe(context.Background(), domain.PositionEvent{
		SessionID: s.ID,
		Latitude:  0,
		Longitude: 0,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, tracker.StatusUnavailable, s.Tracker.Status())
	assert.False(t, s.Tracker.WithinFence())
}

func TestManager_ObserveUnknownSession(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())

	err := m.Observe(context.Background(), domain.PositionEvent{
		SessionID: uuid.New(),
		Latitude:  18.5204,
		Longitude: 73.8567,
	})
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestSession_DoubleSubmitGuard(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())
	s := m.Create(testTarget(true), taskforceProfile(t))

	require.NoError(t, s.BeginSubmit())
	assert.ErrorIs(t, s.BeginSubmit(), errors.ErrSubmitInFlight)

	// A failed submit releases the claim for a retry.
	s.FinishSubmit(false)
	assert.False(t, s.Submitted())
	require.NoError(t, s.BeginSubmit())

	// A successful submit locks the session for good.
	s.FinishSubmit(true)
	assert.True(t, s.Submitted())
	assert.ErrorIs(t, s.BeginSubmit(), errors.ErrSessionAlreadySubmitted)
}

func TestManager_PruneIdle(t *testing.T) {
	m := NewManager(10*time.Millisecond, zap.NewNop())
	stale := m.Create(testTarget(true), taskforceProfile(t))
	fresh := m.Create(testTarget(true), taskforceProfile(t))

	time.Sleep(20 * time.Millisecond)
	fresh.Touch()
	m.pruneIdle()

	_, err := m.Get(stale.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, tracker.StatusClosed, stale.Tracker.Status())
}

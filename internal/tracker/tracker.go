// Package tracker maintains the live distance reading between a field
// device and its report target. Position updates are pushed in; the
// tracker keeps only the latest usable reading and answers fence
// questions from it.
package tracker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/pkg/utils"
)

// Status is the tracker lifecycle for one session.
type Status string

const (
	// StatusIdle means no position has been observed yet.
	StatusIdle Status = "IDLE"
	// StatusTracking means the last observation produced a reading.
	StatusTracking Status = "TRACKING"
	// StatusUnavailable means the position source reported a failure
	// and no reading has arrived since. Fence checks fail closed.
	StatusUnavailable Status = "UNAVAILABLE"
	// StatusNotApplicable means the target has no stored coordinate,
	// so distance is undefined for the whole session.
	StatusNotApplicable Status = "NOT_APPLICABLE"
	// StatusClosed means the session ended and updates are ignored.
	StatusClosed Status = "CLOSED"
)

// FenceTracker holds the latest reading for one session. All methods
// are safe for concurrent use; position pushes and fence checks come
// from different goroutines.
type FenceTracker struct {
	mu sync.RWMutex

	target       *domain.Coordinate
	radiusMeters float64
	logger       *zap.Logger

	status     Status
	reading    *domain.DistanceReading
	last       *domain.Coordinate
	observedAt time.Time
}

// New builds a tracker for a target coordinate and fence radius. A nil
// target puts the tracker permanently into NOT_APPLICABLE: the target
// exists but carries no location, so no fence can ever pass.
func New(target *domain.Coordinate, radiusMeters float64, logger *zap.Logger) *FenceTracker {
	status := StatusIdle
	if target == nil {
		status = StatusNotApplicable
	}
	return &FenceTracker{
		target:       target,
		radiusMeters: radiusMeters,
		logger:       logger,
		status:       status,
	}
}

// Observe records a device position and recomputes the reading.
// Observations always overwrite: only the most recent position matters
// for the fence. A valid observation recovers an UNAVAILABLE tracker.
func (t *FenceTracker) Observe(lat, lon float64, at time.Time) {
	if !utils.ValidateCoordinates(lat, lon) {
		t.Fail(errors.ErrInvalidCoordinates)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusClosed || t.status == StatusNotApplicable {
		return
	}

	meters := utils.HaversineMeters(lat, lon, t.target.Latitude, t.target.Longitude)
	t.last = &domain.Coordinate{Latitude: lat, Longitude: lon}
	t.reading = &domain.DistanceReading{
		Meters:      meters,
		WithinFence: meters <= t.radiusMeters,
	}
	t.status = StatusTracking
	t.observedAt = at
}

// Fail marks the position source as broken. The stale reading is
// discarded: a fence answer must never rest on an outdated fix.
func (t *FenceTracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusClosed || t.status == StatusNotApplicable {
		return
	}
	t.logger.Warn("position source failed, fence checks suspended", zap.Error(err))
	t.reading = nil
	t.status = StatusUnavailable
}

// Reading returns the current distance reading, or nil when the tracker
// has no usable position (idle, unavailable, not applicable, closed).
func (t *FenceTracker) Reading() *domain.DistanceReading {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.status != StatusTracking || t.reading == nil {
		return nil
	}
	r := *t.reading
	return &r
}

// WithinFence reports whether the device is currently known to be
// inside the fence. Fails closed: no reading means false.
func (t *FenceTracker) WithinFence() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status == StatusTracking && t.reading != nil && t.reading.WithinFence
}

// LastCoordinate returns the device position behind the current
// reading, or nil when there is none.
func (t *FenceTracker) LastCoordinate() *domain.Coordinate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.status != StatusTracking || t.last == nil {
		return nil
	}
	c := *t.last
	return &c
}

func (t *FenceTracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Close stops the tracker. Idempotent; later observations are dropped.
func (t *FenceTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusClosed
	t.reading = nil
	t.last = nil
}

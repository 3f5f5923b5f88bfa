package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/tracker"
)

// Manager owns all active sessions of the process and prunes the ones
// that go idle past the configured TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	logger   *zap.Logger
}

func NewManager(ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Create opens a session for a target. Targets without coordinates get
// a NOT_APPLICABLE tracker rather than an error: the caller decides
// whether that blocks the flow.
func (m *Manager) Create(target *domain.TargetPoint, profile domain.ModuleProfile) *Session {
	tr := tracker.New(target.Location, profile.FenceRadiusMeters, m.logger)
	s := newSession(target, profile, tr)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("report session created",
		zap.String("session_id", s.ID.String()),
		zap.String("target_id", target.ID.String()),
		zap.String("module", string(profile.Module)),
		zap.String("tracker_status", string(tr.Status())))
	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session and closes its tracker. Safe to call for ids
// that were already pruned.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.Tracker.Close()
	}
}

// Observe routes a position event to its session's tracker. Implements
// the position sink consumed by the ingestion path.
func (m *Manager) Observe(_ context.Context, event domain.PositionEvent) error {
	s, err := m.Get(event.SessionID)
	if err != nil {
		return err
	}
	if !event.HasFix() {
		s.Tracker.Fail(errors.ErrInvalidCoordinates)
		return nil
	}
	s.Tracker.Observe(event.Latitude, event.Longitude, event.Timestamp)
	s.Touch()
	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run prunes idle sessions until the context is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pruneIdle()
		}
	}
}

func (m *Manager) pruneIdle() {
	cutoff := time.Now().UTC().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Tracker.Close()
		m.logger.Info("idle report session expired",
			zap.String("session_id", s.ID.String()),
			zap.String("target_id", s.Target.ID.String()))
	}
}

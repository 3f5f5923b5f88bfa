// Package session holds the in-memory state of active report sessions:
// one answer set and one fence tracker per session, owned by the API
// process for the session's lifetime.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/tracker"
)

// Session is one in-progress report against a target. Answers and the
// tracker live here until submit or expiry; nothing touches the
// database before the submit preconditions pass.
type Session struct {
	ID      uuid.UUID
	Target  *domain.TargetPoint
	Profile domain.ModuleProfile
	Answers *domain.AnswerSet
	Tracker *tracker.FenceTracker

	CreatedAt time.Time

	mu         sync.Mutex
	lastActive time.Time
	submitted  bool
	submitting bool
}

func newSession(target *domain.TargetPoint, profile domain.ModuleProfile, tr *tracker.FenceTracker) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         uuid.New(),
		Target:     target,
		Profile:    profile,
		Answers:    domain.NewAnswerSet(profile.Questionnaire),
		Tracker:    tr,
		CreatedAt:  now,
		lastActive: now,
	}
}

// Touch refreshes the activity timestamp used for idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now().UTC()
	s.mu.Unlock()
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// BeginSubmit claims the exclusive right to submit. It fails when a
// submit already succeeded or another one is in flight, so a double tap
// can never produce two reports.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return errors.ErrSessionAlreadySubmitted
	}
	if s.submitting {
		return errors.ErrSubmitInFlight
	}
	s.submitting = true
	return nil
}

// FinishSubmit releases the submit claim. On success the session is
// permanently marked submitted; on failure it returns to its previous
// state with every answer intact, ready for a retry.
func (s *Session) FinishSubmit(succeeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if succeeded {
		s.submitted = true
	}
}

func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

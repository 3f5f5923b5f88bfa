package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names shared with the companion apps' ingestion path.
const (
	StreamPositionUpdate  = "stream:position:update"
	StreamReportSubmitted = "stream:report:submitted"
)

// PositionEvent is one device position update pushed by a field app
// during an active report session. Readings may arrive out of order;
// consumers keep only the most recent one per session.
type PositionEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HasFix reports whether the event carries a usable coordinate.
// Exactly (0, 0) counts as no fix: device location stacks emit it for
// a failed read, and no serviced target sits on Null Island.
func (e *PositionEvent) HasFix() bool {
	return e.Latitude >= -90 && e.Latitude <= 90 &&
		e.Longitude >= -180 && e.Longitude <= 180 &&
		!(e.Latitude == 0 && e.Longitude == 0)
}

// ReportSubmittedEvent is published after a report is stored, for QC
// queues and dashboards.
type ReportSubmittedEvent struct {
	ReportID    uuid.UUID `json:"report_id"`
	TargetID    uuid.UUID `json:"target_id"`
	Module      Module    `json:"module"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// StreamMessage is one raw entry read from a Redis Stream.
type StreamMessage struct {
	ID   string
	Data string
}

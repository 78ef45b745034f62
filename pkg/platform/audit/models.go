package audit

import (
	"context"
	"time"

	id "nammasev/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time
	ComplaintID id.ComplaintID
	// ActorID is the citizen or admin who performed the action. Empty for
	// system-initiated actions.
	ActorID   string
	ActorRole string
	Action    string
	// Detail carries action-specific context, e.g. "pending->in_progress"
	// for status changes or the rating for feedback.
	Detail    string
	RequestID string
	ClientIP  string
}

const (
	ActionComplaintSubmitted = "complaint_submitted"
	ActionStatusChanged      = "status_changed"
	ActionComplaintPublished = "complaint_published"
	ActionFeedbackSubmitted  = "feedback_submitted"
)

// Store is the append-only persistence port for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByComplaint(ctx context.Context, complaintID id.ComplaintID) ([]Event, error)
}

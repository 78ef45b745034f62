package domain

import dErrors "nammasev/pkg/domain-errors"

// Status is a complaint's lifecycle state.
//
// The transition graph:
//
//	pending     -> in_progress | resolved | rejected
//	in_progress -> resolved | rejected
//	resolved    -> (terminal)
//	rejected    -> (terminal)
//
// A transition to the current status is never legal; the engine rejects it
// as a conflict rather than silently no-oping.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// statusEdges is the single source of truth for legal transitions.
var statusEdges = map[Status]map[Status]bool{
	StatusPending: {
		StatusInProgress: true,
		StatusResolved:   true,
		StatusRejected:   true,
	},
	StatusInProgress: {
		StatusResolved: true,
		StatusRejected: true,
	},
	StatusResolved: {},
	StatusRejected: {},
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid status %q", s)
	}
	return st, nil
}

// IsValid checks membership in the closed status set.
func (s Status) IsValid() bool {
	_, ok := statusEdges[s]
	return ok
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s Status) CanTransitionTo(target Status) bool {
	return statusEdges[s][target]
}

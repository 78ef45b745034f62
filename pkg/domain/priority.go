package domain

import dErrors "nammasev/pkg/domain-errors"

// Priority is a complaint's urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var validPriorities = map[Priority]bool{
	PriorityLow:    true,
	PriorityNormal: true,
	PriorityHigh:   true,
	PriorityUrgent: true,
}

// ParsePriority constructs a Priority from external input. The empty string
// defaults to normal, matching the submission form's optional field.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityNormal, nil
	}
	p := Priority(s)
	if !validPriorities[p] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid priority %q", s)
	}
	return p, nil
}

// IsValid checks membership in the closed priority set.
func (p Priority) IsValid() bool {
	return validPriorities[p]
}

// Package domain holds the shared value types of the complaint service:
// typed entity IDs, the closed lifecycle/category/priority/role enums, and
// the public tracking ID.
//
// Typed IDs prevent cross-entity mix-ups at compile time. Construct them via
// the Parse* functions at trust boundaries; direct casting bypasses
// validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "nammasev/pkg/domain-errors"
)

// ComplaintID identifies a complaint aggregate.
type ComplaintID uuid.UUID

// CitizenID identifies a citizen or admin subject as asserted by the
// upstream identity provider.
type CitizenID uuid.UUID

// FeedbackID identifies a feedback record.
type FeedbackID uuid.UUID

// TimelineEntryID identifies a single timeline row.
type TimelineEntryID uuid.UUID

func (id ComplaintID) String() string     { return uuid.UUID(id).String() }
func (id CitizenID) String() string       { return uuid.UUID(id).String() }
func (id FeedbackID) String() string      { return uuid.UUID(id).String() }
func (id TimelineEntryID) String() string { return uuid.UUID(id).String() }

func (id ComplaintID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CitizenID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// Text marshaling so IDs render as canonical UUID strings in JSON.

func (id ComplaintID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id CitizenID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id FeedbackID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id TimelineEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ComplaintID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ComplaintID(parsed)
	return nil
}

func (id *CitizenID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = CitizenID(parsed)
	return nil
}

func (id *FeedbackID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = FeedbackID(parsed)
	return nil
}

func (id *TimelineEntryID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = TimelineEntryID(parsed)
	return nil
}

// NewComplaintID allocates a fresh complaint ID.
func NewComplaintID() ComplaintID { return ComplaintID(uuid.New()) }

// NewCitizenID allocates a fresh citizen ID. Mostly used by tests; real
// citizen IDs arrive in tokens from the identity provider.
func NewCitizenID() CitizenID { return CitizenID(uuid.New()) }

// NewFeedbackID allocates a fresh feedback ID.
func NewFeedbackID() FeedbackID { return FeedbackID(uuid.New()) }

// NewTimelineEntryID allocates a fresh timeline entry ID.
func NewTimelineEntryID() TimelineEntryID { return TimelineEntryID(uuid.New()) }

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", label)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", label)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", label)
	}
	return parsed, nil
}

// ParseComplaintID constructs a ComplaintID from external input.
func ParseComplaintID(s string) (ComplaintID, error) {
	parsed, err := parseUUID(s, "complaint id")
	if err != nil {
		return ComplaintID{}, err
	}
	return ComplaintID(parsed), nil
}

// ParseCitizenID constructs a CitizenID from external input.
func ParseCitizenID(s string) (CitizenID, error) {
	parsed, err := parseUUID(s, "citizen id")
	if err != nil {
		return CitizenID{}, err
	}
	return CitizenID(parsed), nil
}

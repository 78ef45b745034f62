package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
)

const (
	titleMinLen       = 10
	titleMaxLen       = 200
	descriptionMinLen = 30
	descriptionMaxLen = 5000
	locationMaxLen    = 300
	maxAttachments    = 3
)

// Complaint is the aggregate root for a citizen complaint.
//
// Invariants:
//   - TrackingID is assigned exactly once at submission and never changes
//   - Status only moves along the edges of the lifecycle graph; resolved
//     and rejected are terminal
//   - Timeline is append-only and holds exactly one entry per accepted
//     transition plus the submission entry
//   - IsPublic moves false -> true at most once and never back
//   - ResolvedAt is set exactly when status becomes resolved
type Complaint struct {
	ID          id.ComplaintID  `json:"id"`
	CitizenID   id.CitizenID    `json:"citizenId"`
	TrackingID  id.TrackingID   `json:"trackingId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    id.Category     `json:"category"`
	Priority    id.Priority     `json:"priority"`
	Location    string          `json:"location"`
	Ward        string          `json:"ward,omitempty"`
	// ContactPhone is an optional alternate phone number. It is never
	// exposed on the public track or transparency views.
	ContactPhone string   `json:"contactPhone,omitempty"`
	Attachments  []string `json:"attachments,omitempty"`
	Status       id.Status `json:"status"`
	IsPublic     bool      `json:"isPublic"`

	EstimatedResolutionDays int `json:"estimatedResolutionDays"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	Timeline []TimelineEntry `json:"timeline,omitempty"`
}

// TimelineEntry is one append-only lifecycle record.
type TimelineEntry struct {
	ID          id.TimelineEntryID `json:"id"`
	ComplaintID id.ComplaintID     `json:"complaintId"`
	Status      id.Status          `json:"status"`
	Remarks     string             `json:"remarks,omitempty"`
	ActorID     id.CitizenID       `json:"actorId"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// SubmitRequest carries citizen input for a new complaint. Fields are raw
// strings; NewComplaint parses and validates them.
type SubmitRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Priority     string   `json:"priority"`
	Location     string   `json:"location"`
	Ward         string   `json:"ward"`
	ContactPhone string   `json:"contactPhone"`
	Attachments  []string `json:"attachments"`
}

// NewComplaint validates the request and builds a pending complaint with
// its submission timeline entry. Validation failures carry per-field detail.
func NewComplaint(complaintID id.ComplaintID, citizenID id.CitizenID, trackingID id.TrackingID, req SubmitRequest, now time.Time) (*Complaint, error) {
	fields := map[string]string{}

	title := strings.TrimSpace(req.Title)
	if len(title) < titleMinLen {
		fields["title"] = fmt.Sprintf("must be at least %d characters", titleMinLen)
	} else if len(title) > titleMaxLen {
		fields["title"] = fmt.Sprintf("must be at most %d characters", titleMaxLen)
	}

	description := strings.TrimSpace(req.Description)
	if len(description) < descriptionMinLen {
		fields["description"] = fmt.Sprintf("must be at least %d characters", descriptionMinLen)
	} else if len(description) > descriptionMaxLen {
		fields["description"] = fmt.Sprintf("must be at most %d characters", descriptionMaxLen)
	}

	category, err := id.ParseCategory(req.Category)
	if err != nil {
		fields["category"] = "must be one of the supported categories"
	}

	priority, err := id.ParsePriority(req.Priority)
	if err != nil {
		fields["priority"] = "must be one of low, normal, high, urgent"
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		fields["location"] = "cannot be empty"
	} else if len(location) > locationMaxLen {
		fields["location"] = fmt.Sprintf("must be at most %d characters", locationMaxLen)
	}

	if len(req.Attachments) > maxAttachments {
		fields["attachments"] = fmt.Sprintf("at most %d attachments are allowed", maxAttachments)
	} else {
		for i, a := range req.Attachments {
			u, err := url.Parse(a)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				fields["attachments"] = fmt.Sprintf("attachment %d is not a valid http(s) URL", i+1)
				break
			}
		}
	}

	if len(fields) > 0 {
		return nil, dErrors.Validation(fields)
	}

	c := &Complaint{
		ID:                      complaintID,
		CitizenID:               citizenID,
		TrackingID:              trackingID,
		Title:                   title,
		Description:             description,
		Category:                category,
		Priority:                priority,
		Location:                location,
		Ward:                    strings.TrimSpace(req.Ward),
		ContactPhone:            strings.TrimSpace(req.ContactPhone),
		Attachments:             append([]string(nil), req.Attachments...),
		Status:                  id.StatusPending,
		EstimatedResolutionDays: category.EstimatedResolutionDays(),
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	c.Timeline = []TimelineEntry{{
		ID:          id.NewTimelineEntryID(),
		ComplaintID: complaintID,
		Status:      id.StatusPending,
		Remarks:     "Complaint submitted",
		ActorID:     citizenID,
		CreatedAt:   now,
	}}
	return c, nil
}

// IsOwnedBy reports whether the complaint belongs to the given citizen.
func (c *Complaint) IsOwnedBy(citizenID id.CitizenID) bool {
	return c.CitizenID == citizenID
}

// CanTransition checks whether the lifecycle edge to target exists.
// Use with ApplyTransition in Execute callbacks.
func (c *Complaint) CanTransition(target id.Status) error {
	if c.Status == target {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "complaint is already %s", target)
	}
	if c.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "complaint is %s and cannot change status", c.Status)
	}
	if !c.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot move from %s to %s", c.Status, target)
	}
	return nil
}

// ApplyTransition moves the complaint to target and appends the matching
// timeline entry. Call CanTransition first.
func (c *Complaint) ApplyTransition(target id.Status, remarks string, actorID id.CitizenID, now time.Time) {
	c.Status = target
	c.UpdatedAt = now
	if target == id.StatusResolved {
		resolvedAt := now
		c.ResolvedAt = &resolvedAt
	}
	c.Timeline = append(c.Timeline, TimelineEntry{
		ID:          id.NewTimelineEntryID(),
		ComplaintID: c.ID,
		Status:      target,
		Remarks:     strings.TrimSpace(remarks),
		ActorID:     actorID,
		CreatedAt:   now,
	})
}

// CanPublish checks the one-way visibility invariant.
func (c *Complaint) CanPublish() error {
	if c.IsPublic {
		return dErrors.New(dErrors.CodeInvariantViolation, "complaint is already public")
	}
	return nil
}

// ApplyPublish flips visibility to public. Call CanPublish first.
func (c *Complaint) ApplyPublish(now time.Time) {
	c.IsPublic = true
	c.UpdatedAt = now
}

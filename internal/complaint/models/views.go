package models

import (
	"time"

	id "nammasev/pkg/domain"
)

// statusMessages are the citizen-facing summaries shown on the public
// track view.
var statusMessages = map[id.Status]string{
	id.StatusPending:    "Your complaint has been received and is awaiting review.",
	id.StatusInProgress: "Your complaint is being worked on by the concerned department.",
	id.StatusResolved:   "Your complaint has been resolved.",
	id.StatusRejected:   "Your complaint was reviewed and could not be taken up.",
}

// StatusMessage returns the citizen-facing summary for a status.
func StatusMessage(status id.Status) string {
	return statusMessages[status]
}

// TrackView is the unauthenticated lookup result. It carries no owner
// identity or contact details, only the complaint itself and its
// lifecycle progress.
type TrackView struct {
	TrackingID              id.TrackingID      `json:"trackingId"`
	Status                  id.Status          `json:"status"`
	StatusMessage           string             `json:"statusMessage"`
	Category                id.Category        `json:"category"`
	Title                   string             `json:"title"`
	Location                string             `json:"location"`
	CreatedAt               time.Time          `json:"createdAt"`
	DaysSinceCreation       int                `json:"daysSinceCreation"`
	EstimatedResolutionDays int                `json:"estimatedResolutionDays"`
	ResolvedAt              *time.Time         `json:"resolvedAt,omitempty"`
	Timeline                []TrackTimelineRow `json:"timeline"`
}

// TrackTimelineRow is a redacted timeline entry: no actor identities.
type TrackTimelineRow struct {
	Status    id.Status `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BuildTrackView projects a complaint onto the public track shape.
func BuildTrackView(c *Complaint, now time.Time) TrackView {
	rows := make([]TrackTimelineRow, 0, len(c.Timeline))
	for _, entry := range c.Timeline {
		rows = append(rows, TrackTimelineRow{
			Status:    entry.Status,
			Remarks:   entry.Remarks,
			CreatedAt: entry.CreatedAt,
		})
	}
	days := int(now.Sub(c.CreatedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return TrackView{
		TrackingID:              c.TrackingID,
		Status:                  c.Status,
		StatusMessage:           StatusMessage(c.Status),
		Category:                c.Category,
		Title:                   c.Title,
		Location:                c.Location,
		CreatedAt:               c.CreatedAt,
		DaysSinceCreation:       days,
		EstimatedResolutionDays: c.EstimatedResolutionDays,
		ResolvedAt:              c.ResolvedAt,
		Timeline:                rows,
	}
}

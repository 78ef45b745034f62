package models

import (
	"time"

	complaintmodels "nammasev/internal/complaint/models"
	id "nammasev/pkg/domain"
)

const (
	defaultPageSize = 10
)

// PageRequest is the client's pagination ask. Normalize before use.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit to sane bounds.
func (p PageRequest) Normalize(maxLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset converts page/limit into a row offset.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the envelope every listing response carries.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination derives the envelope from a normalized request and total.
func NewPagination(req PageRequest, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// OwnerFilter scopes the citizen's own-complaints listing.
type OwnerFilter struct {
	PageRequest
	Status *id.Status
}

// AdminFilter scopes the admin listing. Search matches title, description,
// location and tracking ID, case-insensitively.
type AdminFilter struct {
	PageRequest
	Status   *id.Status
	Category *id.Category
	Search   string
}

// PublicFilter scopes the transparency listing. The aggregate stats are
// unaffected: they always cover the whole published set.
type PublicFilter struct {
	PageRequest
	Status   *id.Status
	Category *id.Category
}

// OwnerList is the citizen's own-complaints page with per-status counts
// across all of their complaints, not just the current page.
type OwnerList struct {
	Items        []*complaintmodels.Complaint `json:"items"`
	Pagination   Pagination                   `json:"pagination"`
	StatusCounts map[id.Status]int            `json:"statusCounts"`
}

// AdminList is the unredacted admin page.
type AdminList struct {
	Items      []*complaintmodels.Complaint `json:"items"`
	Pagination Pagination                   `json:"pagination"`
}

// PublicComplaint is the transparency view of a published complaint. No
// owner identity, contact details or attachments.
type PublicComplaint struct {
	TrackingID              id.TrackingID                      `json:"trackingId"`
	Title                   string                             `json:"title"`
	Description             string                             `json:"description"`
	Category                id.Category                        `json:"category"`
	Status                  id.Status                          `json:"status"`
	Location                string                             `json:"location"`
	Ward                    string                             `json:"ward,omitempty"`
	EstimatedResolutionDays int                                `json:"estimatedResolutionDays"`
	CreatedAt               time.Time                          `json:"createdAt"`
	ResolvedAt              *time.Time                         `json:"resolvedAt,omitempty"`
	Timeline                []complaintmodels.TrackTimelineRow `json:"timeline"`
	Rating                  *int                               `json:"rating,omitempty"`
}

// Stats is the public transparency aggregate, computed at read time.
type Stats struct {
	Total      int     `json:"total"`
	Resolved   int     `json:"resolved"`
	InProgress int     `json:"inProgress"`
	Pending    int     `json:"pending"`
	AvgRating  float64 `json:"avgRating"`
}

// PublicList is the transparency page: published complaints plus the
// aggregate stats.
type PublicList struct {
	Items      []PublicComplaint `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Stats      Stats             `json:"stats"`
}

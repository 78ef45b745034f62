package models

import (
	"fmt"
	"strings"
	"time"

	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
)

const commentMaxLen = 1000

// Feedback is a citizen's one-time rating of a resolved complaint.
type Feedback struct {
	ID          id.FeedbackID  `json:"id"`
	ComplaintID id.ComplaintID `json:"complaintId"`
	CitizenID   id.CitizenID   `json:"citizenId"`
	Rating      int            `json:"rating"`
	Comment     string         `json:"comment,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// SubmitRequest carries citizen input for feedback.
type SubmitRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// NewFeedback validates the request and builds a feedback record.
func NewFeedback(feedbackID id.FeedbackID, complaintID id.ComplaintID, citizenID id.CitizenID, req SubmitRequest, now time.Time) (*Feedback, error) {
	fields := map[string]string{}
	if req.Rating < 1 || req.Rating > 5 {
		fields["rating"] = "must be an integer between 1 and 5"
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > commentMaxLen {
		fields["comment"] = fmt.Sprintf("must be at most %d characters", commentMaxLen)
	}
	if len(fields) > 0 {
		return nil, dErrors.Validation(fields)
	}
	return &Feedback{
		ID:          feedbackID,
		ComplaintID: complaintID,
		CitizenID:   citizenID,
		Rating:      req.Rating,
		Comment:     comment,
		SubmittedAt: now,
	}, nil
}

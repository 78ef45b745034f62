package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
)

var now = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func validSubmitRequest() SubmitRequest {
	return SubmitRequest{
		Title:       "Streetlight broken on Main Road",
		Description: "The streetlight near house number 42 has been out for over a week now.",
		Category:    string(id.CategoryStreetLights),
		Location:    "Main Road, near house 42",
		Ward:        "W03 Veerapandi",
	}
}

func newComplaint(t *testing.T, req SubmitRequest) *Complaint {
	t.Helper()
	c, err := NewComplaint(id.NewComplaintID(), id.NewCitizenID(), "NMS-4QJ7X2RD", req, now)
	require.NoError(t, err)
	return c
}

func Test_NewComplaint(t *testing.T) {
	citizenID := id.NewCitizenID()
	complaintID := id.NewComplaintID()

	c, err := NewComplaint(complaintID, citizenID, "NMS-4QJ7X2RD", validSubmitRequest(), now)
	require.NoError(t, err)

	assert.Equal(t, complaintID, c.ID)
	assert.Equal(t, citizenID, c.CitizenID)
	assert.Equal(t, id.TrackingID("NMS-4QJ7X2RD"), c.TrackingID)
	assert.Equal(t, id.StatusPending, c.Status)
	assert.Equal(t, id.PriorityNormal, c.Priority, "priority defaults to normal")
	assert.Equal(t, 7, c.EstimatedResolutionDays)
	assert.False(t, c.IsPublic)
	assert.Nil(t, c.ResolvedAt)

	require.Len(t, c.Timeline, 1)
	assert.Equal(t, id.StatusPending, c.Timeline[0].Status)
	assert.Equal(t, "Complaint submitted", c.Timeline[0].Remarks)
	assert.Equal(t, citizenID, c.Timeline[0].ActorID)
}

func Test_NewComplaint_TrimsInput(t *testing.T) {
	req := validSubmitRequest()
	req.Title = "  Streetlight broken on Main Road  "
	req.Location = " Main Road, near house 42 "

	c := newComplaint(t, req)
	assert.Equal(t, "Streetlight broken on Main Road", c.Title)
	assert.Equal(t, "Main Road, near house 42", c.Location)
}

func Test_NewComplaint_ValidationFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SubmitRequest)
		field  string
	}{
		{"short title", func(r *SubmitRequest) { r.Title = "Too short" }, "title"},
		{"long title", func(r *SubmitRequest) { r.Title = strings.Repeat("a", 201) }, "title"},
		{"short description", func(r *SubmitRequest) { r.Description = "too short" }, "description"},
		{"long description", func(r *SubmitRequest) { r.Description = strings.Repeat("a", 5001) }, "description"},
		{"unknown category", func(r *SubmitRequest) { r.Category = "Potholes" }, "category"},
		{"unknown priority", func(r *SubmitRequest) { r.Priority = "critical" }, "priority"},
		{"empty location", func(r *SubmitRequest) { r.Location = "  " }, "location"},
		{"long location", func(r *SubmitRequest) { r.Location = strings.Repeat("a", 301) }, "location"},
		{"too many attachments", func(r *SubmitRequest) {
			r.Attachments = []string{"https://a/1.jpg", "https://a/2.jpg", "https://a/3.jpg", "https://a/4.jpg"}
		}, "attachments"},
		{"non-http attachment", func(r *SubmitRequest) { r.Attachments = []string{"ftp://host/file.jpg"} }, "attachments"},
		{"relative attachment", func(r *SubmitRequest) { r.Attachments = []string{"/uploads/file.jpg"} }, "attachments"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmitRequest()
			tc.mutate(&req)

			_, err := NewComplaint(id.NewComplaintID(), id.NewCitizenID(), "NMS-4QJ7X2RD", req, now)
			require.Error(t, err)
			assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
			assert.Contains(t, dErrors.FieldsOf(err), tc.field)
		})
	}
}

func Test_NewComplaint_CollectsAllFieldErrors(t *testing.T) {
	req := SubmitRequest{Title: "x", Description: "y", Category: "nope", Location: ""}

	_, err := NewComplaint(id.NewComplaintID(), id.NewCitizenID(), "NMS-4QJ7X2RD", req, now)
	require.Error(t, err)
	assert.Len(t, dErrors.FieldsOf(err), 4)
}

func Test_Transitions(t *testing.T) {
	admin := id.NewCitizenID()

	t.Run("pending to in_progress appends timeline", func(t *testing.T) {
		c := newComplaint(t, validSubmitRequest())
		later := now.Add(time.Hour)

		require.NoError(t, c.CanTransition(id.StatusInProgress))
		c.ApplyTransition(id.StatusInProgress, "Assigned to field crew", admin, later)

		assert.Equal(t, id.StatusInProgress, c.Status)
		assert.Equal(t, later, c.UpdatedAt)
		assert.Nil(t, c.ResolvedAt)
		require.Len(t, c.Timeline, 2)
		assert.Equal(t, "Assigned to field crew", c.Timeline[1].Remarks)
		assert.Equal(t, admin, c.Timeline[1].ActorID)
	})

	t.Run("resolving stamps ResolvedAt", func(t *testing.T) {
		c := newComplaint(t, validSubmitRequest())
		later := now.Add(48 * time.Hour)

		c.ApplyTransition(id.StatusResolved, "Fixed", admin, later)

		require.NotNil(t, c.ResolvedAt)
		assert.Equal(t, later, *c.ResolvedAt)
	})

	t.Run("same-status transition is rejected", func(t *testing.T) {
		c := newComplaint(t, validSubmitRequest())
		err := c.CanTransition(id.StatusPending)
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeInvariantViolation, "complaint is already pending"))
	})

	t.Run("terminal complaint cannot change status", func(t *testing.T) {
		c := newComplaint(t, validSubmitRequest())
		c.ApplyTransition(id.StatusRejected, "Duplicate report", admin, now)

		err := c.CanTransition(id.StatusInProgress)
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeInvariantViolation, "complaint is rejected and cannot change status"))
	})

	t.Run("missing edge is rejected", func(t *testing.T) {
		c := newComplaint(t, validSubmitRequest())
		c.ApplyTransition(id.StatusInProgress, "", admin, now)

		err := c.CanTransition(id.StatusPending)
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeInvariantViolation, "cannot move from in_progress to pending"))
	})
}

func Test_Publish(t *testing.T) {
	c := newComplaint(t, validSubmitRequest())

	require.NoError(t, c.CanPublish())
	c.ApplyPublish(now.Add(time.Hour))
	assert.True(t, c.IsPublic)

	err := c.CanPublish()
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeInvariantViolation, "complaint is already public"))
}

func Test_IsOwnedBy(t *testing.T) {
	c := newComplaint(t, validSubmitRequest())
	assert.True(t, c.IsOwnedBy(c.CitizenID))
	assert.False(t, c.IsOwnedBy(id.NewCitizenID()))
}

func Test_BuildTrackView(t *testing.T) {
	c := newComplaint(t, validSubmitRequest())
	admin := id.NewCitizenID()
	c.ApplyTransition(id.StatusResolved, "Bulb replaced", admin, now.Add(72*time.Hour))

	view := BuildTrackView(c, now.Add(100*time.Hour))

	assert.Equal(t, c.TrackingID, view.TrackingID)
	assert.Equal(t, c.Title, view.Title)
	assert.Equal(t, c.Category, view.Category)
	assert.Equal(t, c.Location, view.Location)
	assert.Equal(t, id.StatusResolved, view.Status)
	assert.Equal(t, "Your complaint has been resolved.", view.StatusMessage)
	assert.Equal(t, 4, view.DaysSinceCreation)
	require.NotNil(t, view.ResolvedAt)

	require.Len(t, view.Timeline, 2)
	assert.Equal(t, "Bulb replaced", view.Timeline[1].Remarks)
}

func Test_BuildTrackView_ClampsNegativeAge(t *testing.T) {
	c := newComplaint(t, validSubmitRequest())
	view := BuildTrackView(c, now.Add(-time.Hour))
	assert.Equal(t, 0, view.DaysSinceCreation)
}

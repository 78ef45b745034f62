package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	complaintmodels "nammasev/internal/complaint/models"
	feedbackmodels "nammasev/internal/feedback/models"
	listingmodels "nammasev/internal/listing/models"
	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
	"nammasev/pkg/platform/httputil"
	request "nammasev/pkg/platform/middleware/request"
)

// handleSubmit accepts a new complaint from the authenticated citizen.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req complaintmodels.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	complaint, err := h.complaints.Submit(ctx, req)
	if err != nil {
		h.logError(r, "submit complaint failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, complaint)
}

// handleListOwn returns the citizen's complaints page.
func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := listingmodels.OwnerFilter{PageRequest: pageRequest(r)}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := id.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Status = &status
	}

	list, err := h.listing.ListOwn(ctx, filter)
	if err != nil {
		h.logError(r, "list own complaints failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// complaintDetail is the get-one response: the aggregate plus any feedback.
type complaintDetail struct {
	*complaintmodels.Complaint
	Feedback *feedbackmodels.Feedback `json:"feedback,omitempty"`
}

// handleGetOne returns one complaint with timeline and feedback. Owner or
// admin only.
func (h *Handler) handleGetOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	complaintID, err := id.ParseComplaintID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	complaint, err := h.complaints.GetByID(ctx, complaintID)
	if err != nil {
		h.logError(r, "get complaint failed", err)
		httputil.WriteError(w, err)
		return
	}
	feedback, err := h.feedback.GetForComplaint(ctx, complaintID)
	if err != nil {
		h.logError(r, "get feedback failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, complaintDetail{Complaint: complaint, Feedback: feedback})
}

// handleSubmitFeedback records the owner's rating of a resolved complaint.
func (h *Handler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	complaintID, err := id.ParseComplaintID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req feedbackmodels.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	feedback, err := h.feedback.Submit(ctx, complaintID, req)
	if err != nil {
		h.logError(r, "submit feedback failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, feedback)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, msg,
			"error", err,
			"path", r.URL.Path,
			"request_id", request.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"path", r.URL.Path,
		"request_id", request.GetRequestID(ctx),
	)
}

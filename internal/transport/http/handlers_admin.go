package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	listingmodels "nammasev/internal/listing/models"
	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
	"nammasev/pkg/platform/httputil"
)

// handleListAdmin returns the unredacted cross-citizen listing.
func (h *Handler) handleListAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := listingmodels.AdminFilter{
		PageRequest: pageRequest(r),
		Search:      q.Get("search"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := id.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("category"); raw != "" {
		category, err := id.ParseCategory(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Category = &category
	}

	list, err := h.listing.ListAdmin(ctx, filter)
	if err != nil {
		h.logError(r, "admin listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

type transitionRequest struct {
	NewStatus string `json:"newStatus"`
	Remarks   string `json:"remarks"`
}

// handleTransition applies a lifecycle transition.
func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	complaintID, err := id.ParseComplaintID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	target, err := id.ParseStatus(req.NewStatus)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	complaint, err := h.complaints.Transition(ctx, complaintID, target, req.Remarks)
	if err != nil {
		h.logError(r, "status transition failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, complaint)
}

// handlePublish makes a complaint publicly visible.
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	complaintID, err := id.ParseComplaintID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	complaint, err := h.complaints.Publish(ctx, complaintID)
	if err != nil {
		h.logError(r, "publish failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, complaint)
}

// pageRequest reads page and limit query parameters. Values are clamped in
// the listing service.
func pageRequest(r *http.Request) listingmodels.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return listingmodels.PageRequest{Page: page, Limit: limit}
}

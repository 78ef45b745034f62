package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	listingmodels "nammasev/internal/listing/models"
	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/httputil"
)

// handleTrack resolves a tracking ID to the redacted public view. No
// authentication required.
func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	trackingID, err := id.ParseTrackingID(chi.URLParam(r, "trackingId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.complaints.Track(ctx, trackingID)
	if err != nil {
		h.logError(r, "track lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// handleListPublic returns the transparency page with aggregate stats.
// Status and category narrow the listing; the stats stay whole-set.
func (h *Handler) handleListPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := listingmodels.PublicFilter{PageRequest: pageRequest(r)}
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

	list, err := h.listing.ListPublic(ctx, filter)
	if err != nil {
		h.logError(r, "public listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// ward is one entry of the static ward directory.
type ward struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var wards = []ward{
	{ID: "W01", Name: "Ward 1 - Avinashi Road"},
	{ID: "W02", Name: "Ward 2 - Kumaran Road"},
	{ID: "W03", Name: "Ward 3 - Palladam Road"},
	{ID: "W04", Name: "Ward 4 - Dharapuram Road"},
	{ID: "W05", Name: "Ward 5 - Kangeyam Road"},
	{ID: "W06", Name: "Ward 6 - Mangalam Road"},
	{ID: "W07", Name: "Ward 7 - Kongu Main Road"},
	{ID: "W08", Name: "Ward 8 - Veerapandi"},
	{ID: "W09", Name: "Ward 9 - Nallur"},
	{ID: "W10", Name: "Ward 10 - Angeripalayam"},
	{ID: "W11", Name: "Ward 11 - Iduvampalayam"},
	{ID: "W12", Name: "Ward 12 - Perumanallur"},
}

// handleWards serves the static ward directory for the submission form.
func (h *Handler) handleWards(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string][]ward{"wards": wards})
}

// handleHealth reports liveness, pinging each registered dependency with a
// short deadline.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, dep := range h.health {
		if dep == nil {
			continue
		}
		if err := dep.Health(ctx); err != nil {
			h.logError(r, "health check failed", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

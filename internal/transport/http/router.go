package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	complaintmodels "nammasev/internal/complaint/models"
	feedbackmodels "nammasev/internal/feedback/models"
	listingmodels "nammasev/internal/listing/models"
	"nammasev/internal/platform/metrics"
	"nammasev/internal/platform/middleware"
	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/middleware/auth"
	"nammasev/pkg/platform/middleware/metadata"
	request "nammasev/pkg/platform/middleware/request"
	"nammasev/pkg/platform/middleware/requesttime"
)

// ComplaintService is the handler-facing slice of the complaint service.
type ComplaintService interface {
	Submit(ctx context.Context, req complaintmodels.SubmitRequest) (*complaintmodels.Complaint, error)
	GetByID(ctx context.Context, complaintID id.ComplaintID) (*complaintmodels.Complaint, error)
	Track(ctx context.Context, trackingID id.TrackingID) (complaintmodels.TrackView, error)
	Transition(ctx context.Context, complaintID id.ComplaintID, target id.Status, remarks string) (*complaintmodels.Complaint, error)
	Publish(ctx context.Context, complaintID id.ComplaintID) (*complaintmodels.Complaint, error)
}

// FeedbackService accepts and resolves post-resolution feedback.
type FeedbackService interface {
	Submit(ctx context.Context, complaintID id.ComplaintID, req feedbackmodels.SubmitRequest) (*feedbackmodels.Feedback, error)
	GetForComplaint(ctx context.Context, complaintID id.ComplaintID) (*feedbackmodels.Feedback, error)
}

// ListingService serves the scoped read paths.
type ListingService interface {
	ListOwn(ctx context.Context, filter listingmodels.OwnerFilter) (*listingmodels.OwnerList, error)
	ListAdmin(ctx context.Context, filter listingmodels.AdminFilter) (*listingmodels.AdminList, error)
	ListPublic(ctx context.Context, filter listingmodels.PublicFilter) (*listingmodels.PublicList, error)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler is the thin HTTP layer over the domain services.
type Handler struct {
	complaints ComplaintService
	feedback   FeedbackService
	listing    ListingService
	logger     *slog.Logger
	health     []HealthChecker
}

func NewHandler(complaints ComplaintService, feedback FeedbackService, listing ListingService, logger *slog.Logger, health ...HealthChecker) *Handler {
	return &Handler{
		complaints: complaints,
		feedback:   feedback,
		listing:    listing,
		logger:     logger,
		health:     health,
	}
}

// NewRouter wires every route with its middleware chain. Public routes
// carry no auth; citizen routes require a valid token; admin routes
// additionally require the admin role.
func NewRouter(h *Handler, validator auth.TokenValidator, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(request.ID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public transparency surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/track/{trackingId}", h.handleTrack)
		r.Get("/public/complaints", h.handleListPublic)
		r.Get("/wards", h.handleWards)
	})

	// Citizen surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(auth.RequireAuth(validator, h.logger))
		r.Post("/complaints", h.handleSubmit)
		r.Get("/complaints", h.handleListOwn)
		r.Get("/complaints/{id}", h.handleGetOne)
		r.Post("/complaints/{id}/feedback", h.handleSubmitFeedback)
	})

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(auth.RequireAuth(validator, h.logger))
		r.Use(auth.RequireRole(id.RoleAdmin, h.logger))
		r.Get("/admin/complaints", h.handleListAdmin)
		r.Post("/admin/complaints/{id}/status", h.handleTransition)
		r.Post("/admin/complaints/{id}/publish", h.handlePublish)
	})

	return r
}

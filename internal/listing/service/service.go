package service

import (
	"context"
	"errors"
	"log/slog"

	complaintmodels "nammasev/internal/complaint/models"
	feedbackmodels "nammasev/internal/feedback/models"
	"nammasev/internal/listing/models"
	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
	"nammasev/pkg/platform/sentinel"
	"nammasev/pkg/requestcontext"
)

// ComplaintQueries is the read-side port for listings. Implementations
// return complaints without timelines; the public view hydrates them
// separately.
type ComplaintQueries interface {
	ListByCitizen(ctx context.Context, citizenID id.CitizenID, filter models.OwnerFilter) ([]*complaintmodels.Complaint, int, error)
	CountByStatusForCitizen(ctx context.Context, citizenID id.CitizenID) (map[id.Status]int, error)
	ListAdmin(ctx context.Context, filter models.AdminFilter) ([]*complaintmodels.Complaint, int, error)
	ListPublic(ctx context.Context, filter models.PublicFilter) ([]*complaintmodels.Complaint, int, error)
	PublicStats(ctx context.Context) (models.Stats, error)
	TimelineFor(ctx context.Context, complaintID id.ComplaintID) ([]complaintmodels.TimelineEntry, error)
}

// FeedbackReader resolves the rating shown on public items.
type FeedbackReader interface {
	FindByComplaint(ctx context.Context, complaintID id.ComplaintID) (*feedbackmodels.Feedback, error)
}

// StatsCache is the optional read-through cache for public stats.
type StatsCache interface {
	Get(ctx context.Context) (models.Stats, bool)
	Set(ctx context.Context, stats models.Stats)
}

// Service serves the three scoped read paths: owner, admin, public.
type Service struct {
	queries  ComplaintQueries
	feedback FeedbackReader
	cache    StatsCache
	logger   *slog.Logger
	maxLimit int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithStatsCache(cache StatsCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithMaxPageSize caps the limit parameter. Zero means no cap.
func WithMaxPageSize(limit int) Option {
	return func(s *Service) {
		s.maxLimit = limit
	}
}

func New(queries ComplaintQueries, feedback FeedbackReader, opts ...Option) *Service {
	s := &Service{
		queries:  queries,
		feedback: feedback,
		logger:   slog.Default(),
		maxLimit: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListOwn returns the authenticated citizen's complaints, newest first,
// with per-status counts across all of their complaints.
func (s *Service) ListOwn(ctx context.Context, filter models.OwnerFilter) (*models.OwnerList, error) {
	citizenID := requestcontext.Subject(ctx)
	if citizenID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "authentication required")
	}
	filter.PageRequest = filter.Normalize(s.maxLimit)

	items, total, err := s.queries.ListByCitizen(ctx, citizenID, filter)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	counts, err := s.queries.CountByStatusForCitizen(ctx, citizenID)
	if err != nil {
		return nil, wrapQueryErr(err)
	}

	return &models.OwnerList{
		Items:        items,
		Pagination:   models.NewPagination(filter.PageRequest, total),
		StatusCounts: counts,
	}, nil
}

// ListAdmin returns the unredacted cross-citizen listing with status,
// category and free-text filters. Admin only.
func (s *Service) ListAdmin(ctx context.Context, filter models.AdminFilter) (*models.AdminList, error) {
	if requestcontext.Role(ctx) != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "administrator role required")
	}
	filter.PageRequest = filter.Normalize(s.maxLimit)

	items, total, err := s.queries.ListAdmin(ctx, filter)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	return &models.AdminList{
		Items:      items,
		Pagination: models.NewPagination(filter.PageRequest, total),
	}, nil
}

func wrapQueryErr(err error) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store temporarily unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "listing query failed")
}

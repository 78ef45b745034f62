package service

import (
	"context"
	"log/slog"

	"nammasev/internal/complaint/models"
	"nammasev/internal/platform/metrics"
	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/audit"
	"nammasev/pkg/platform/tx"
)

// Store is the persistence port for complaint aggregates. FindByID and
// FindByTrackingID return the aggregate with its timeline loaded.
type Store interface {
	// Create persists a new complaint together with its submission
	// timeline entry. Returns sentinel.ErrAlreadyExists when the tracking
	// ID is already taken.
	Create(ctx context.Context, complaint *models.Complaint) error

	FindByID(ctx context.Context, complaintID id.ComplaintID) (*models.Complaint, error)
	FindByTrackingID(ctx context.Context, trackingID id.TrackingID) (*models.Complaint, error)

	// Execute atomically loads the complaint, runs validate, and if it
	// passes runs mutate and persists the result, including any timeline
	// entries mutate appended. The lock (mutex or SELECT ... FOR UPDATE)
	// is held across both callbacks.
	Execute(ctx context.Context, complaintID id.ComplaintID,
		validate func(*models.Complaint) error,
		mutate func(*models.Complaint)) (*models.Complaint, error)
}

// AuditPublisher records domain events on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CacheInvalidator drops derived read models when the underlying data
// changes. The public stats cache implements it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service orchestrates complaint submission, lookup, lifecycle transitions
// and the one-way visibility flip.
type Service struct {
	store          Store
	tracking       *TrackingGenerator
	tx             tx.Runner
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	cache          CacheInvalidator
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

// New constructs a Service. Without WithTxRunner the service runs store
// calls without a surrounding transaction, which is what the memory store
// expects.
func New(store Store, tracking *TrackingGenerator, opts ...Option) *Service {
	s := &Service{
		store:    store,
		tracking: tracking,
		tx:       tx.Passthrough{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) error {
	if s.auditPublisher == nil {
		return nil
	}
	return s.auditPublisher.Emit(ctx, event)
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

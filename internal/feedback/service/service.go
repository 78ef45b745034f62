package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	complaintmodels "nammasev/internal/complaint/models"
	"nammasev/internal/feedback/models"
	"nammasev/internal/platform/metrics"
	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
	"nammasev/pkg/platform/audit"
	"nammasev/pkg/platform/sentinel"
	"nammasev/pkg/platform/tx"
	"nammasev/pkg/requestcontext"
)

// Store is the persistence port for feedback. Create returns
// sentinel.ErrAlreadyExists when the complaint already has feedback; the
// Postgres implementation relies on a unique constraint for this, so the
// at-most-one invariant holds under races.
type Store interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByComplaint(ctx context.Context, complaintID id.ComplaintID) (*models.Feedback, error)
}

// ComplaintReader is the slice of the complaint store this service needs.
type ComplaintReader interface {
	FindByID(ctx context.Context, complaintID id.ComplaintID) (*complaintmodels.Complaint, error)
}

// AuditPublisher records domain events on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service accepts post-resolution feedback from complaint owners.
type Service struct {
	store          Store
	complaints     ComplaintReader
	tx             tx.Runner
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
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

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(store Store, complaints ComplaintReader, opts ...Option) *Service {
	s := &Service{
		store:      store,
		complaints: complaints,
		tx:         tx.Passthrough{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records feedback for a resolved complaint. Owner only, resolved
// only, at most once.
//
// The pre-checks are advisory; the unique constraint is what holds the
// at-most-one invariant when two submissions race.
func (s *Service) Submit(ctx context.Context, complaintID id.ComplaintID, req models.SubmitRequest) (*models.Feedback, error) {
	citizenID := requestcontext.Subject(ctx)
	if citizenID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "authentication required")
	}

	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "complaint not found")
		case errors.Is(err, sentinel.ErrUnavailable):
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "store temporarily unavailable")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "lookup failed")
		}
	}

	if !complaint.IsOwnedBy(citizenID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the complaint owner can submit feedback")
	}
	if complaint.Status != id.StatusResolved {
		return nil, dErrors.New(dErrors.CodeValidation, "feedback is only accepted for resolved complaints").
			WithField("status", "complaint must be resolved")
	}

	feedback, err := models.NewFeedback(id.NewFeedbackID(), complaintID, citizenID, req, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, feedback); err != nil {
			return err
		}
		if s.auditPublisher == nil {
			return nil
		}
		return s.auditPublisher.Emit(txCtx, audit.Event{
			ComplaintID: complaintID,
			ActorID:     citizenID.String(),
			ActorRole:   string(id.RoleCitizen),
			Action:      audit.ActionFeedbackSubmitted,
			Detail:      fmt.Sprintf("rating=%d", feedback.Rating),
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyExists):
			return nil, dErrors.New(dErrors.CodeConflict, "feedback already submitted for this complaint")
		case errors.Is(err, sentinel.ErrUnavailable):
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "store temporarily unavailable")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save feedback")
		}
	}

	if s.metrics != nil {
		s.metrics.IncFeedbackSubmitted(feedback.Rating)
	}
	s.logger.InfoContext(ctx, "feedback submitted",
		"complaint_id", complaintID,
		"rating", feedback.Rating,
		"request_id", requestcontext.RequestID(ctx),
	)
	return feedback, nil
}

// GetForComplaint returns the feedback for a complaint, or nil when none
// exists yet.
func (s *Service) GetForComplaint(ctx context.Context, complaintID id.ComplaintID) (*models.Feedback, error) {
	feedback, err := s.store.FindByComplaint(ctx, complaintID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "lookup failed")
	}
	return feedback, nil
}

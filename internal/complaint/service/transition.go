package service

import (
	"context"
	"errors"

	"nammasev/internal/complaint/models"
	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
	"nammasev/pkg/platform/audit"
	"nammasev/pkg/platform/sentinel"
	"nammasev/pkg/requestcontext"
)

// Transition moves a complaint to a new lifecycle status and appends the
// matching timeline entry atomically. Admin only.
//
// The store's Execute holds the lock (mutex or FOR UPDATE) across
// validation and mutation, so two racing transitions serialize and the
// loser gets a conflict.
func (s *Service) Transition(ctx context.Context, complaintID id.ComplaintID, target id.Status, remarks string) (*models.Complaint, error) {
	if requestcontext.Role(ctx) != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only administrators can change complaint status")
	}

	actorID := requestcontext.Subject(ctx)
	now := requestcontext.Now(ctx)

	var from id.Status
	var complaint *models.Complaint
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.store.Execute(txCtx, complaintID,
			func(c *models.Complaint) error {
				if err := c.CanTransition(target); err != nil {
					var ive *dErrors.Error
					if errors.As(err, &ive) && ive.Code == dErrors.CodeInvariantViolation {
						return dErrors.New(dErrors.CodeConflict, ive.Message)
					}
					return err
				}
				from = c.Status
				return nil
			},
			func(c *models.Complaint) {
				c.ApplyTransition(target, remarks, actorID, now)
			},
		)
		if err != nil {
			return err
		}
		complaint = c
		return s.emitAudit(txCtx, audit.Event{
			ComplaintID: complaintID,
			ActorID:     actorID.String(),
			ActorRole:   string(id.RoleAdmin),
			Action:      audit.ActionStatusChanged,
			Detail:      string(from) + "->" + string(target),
		})
	})
	if err != nil {
		return nil, wrapMutationErr(err)
	}

	if s.metrics != nil {
		s.metrics.IncStatusTransition(string(from), string(target))
	}
	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "complaint status changed",
		"complaint_id", complaintID,
		"from", from,
		"to", target,
		"request_id", requestcontext.RequestID(ctx),
	)
	return complaint, nil
}

// Publish makes a complaint publicly visible. One-way and admin only:
// republishing is a conflict and there is no unpublish.
func (s *Service) Publish(ctx context.Context, complaintID id.ComplaintID) (*models.Complaint, error) {
	if requestcontext.Role(ctx) != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only administrators can publish complaints")
	}

	actorID := requestcontext.Subject(ctx)
	now := requestcontext.Now(ctx)

	var complaint *models.Complaint
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.store.Execute(txCtx, complaintID,
			func(c *models.Complaint) error {
				if err := c.CanPublish(); err != nil {
					return dErrors.New(dErrors.CodeConflict, "complaint is already public")
				}
				return nil
			},
			func(c *models.Complaint) {
				c.ApplyPublish(now)
			},
		)
		if err != nil {
			return err
		}
		complaint = c
		return s.emitAudit(txCtx, audit.Event{
			ComplaintID: complaintID,
			ActorID:     actorID.String(),
			ActorRole:   string(id.RoleAdmin),
			Action:      audit.ActionComplaintPublished,
		})
	})
	if err != nil {
		return nil, wrapMutationErr(err)
	}

	if s.metrics != nil {
		s.metrics.ComplaintsPublished.Inc()
	}
	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "complaint published",
		"complaint_id", complaintID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return complaint, nil
}

func wrapMutationErr(err error) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "complaint not found")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store temporarily unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "update failed")
	}
}

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

// maxTrackingAttempts bounds tracking ID generation retries on collision.
const maxTrackingAttempts = 5

// Submit validates and persists a new complaint for the authenticated
// citizen. The complaint row, its submission timeline entry and the audit
// event commit in one transaction. Tracking ID collisions are retried with
// fresh suffixes up to maxTrackingAttempts times.
func (s *Service) Submit(ctx context.Context, req models.SubmitRequest) (*models.Complaint, error) {
	citizenID := requestcontext.Subject(ctx)
	if citizenID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "authentication required")
	}

	now := requestcontext.Now(ctx)

	var complaint *models.Complaint
	for attempt := 0; attempt < maxTrackingAttempts; attempt++ {
		trackingID, err := s.tracking.New()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate tracking id")
		}

		c, err := models.NewComplaint(id.NewComplaintID(), citizenID, trackingID, req, now)
		if err != nil {
			return nil, err
		}

		err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.store.Create(txCtx, c); err != nil {
				return err
			}
			return s.emitAudit(txCtx, audit.Event{
				ComplaintID: c.ID,
				ActorID:     citizenID.String(),
				ActorRole:   string(id.RoleCitizen),
				Action:      audit.ActionComplaintSubmitted,
				Detail:      string(c.Category),
			})
		})
		if err == nil {
			complaint = c
			break
		}
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			if s.metrics != nil {
				s.metrics.TrackingRetries.Inc()
			}
			continue
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "store temporarily unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create complaint")
	}
	if complaint == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "could not allocate a unique tracking id")
	}

	if s.metrics != nil {
		s.metrics.IncComplaintsSubmitted(string(complaint.Category))
	}
	s.logger.InfoContext(ctx, "complaint submitted",
		"complaint_id", complaint.ID,
		"tracking_id", complaint.TrackingID,
		"category", complaint.Category,
		"request_id", requestcontext.RequestID(ctx),
	)
	return complaint, nil
}

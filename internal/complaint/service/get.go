package service

import (
	"context"
	"errors"

	"nammasev/internal/complaint/models"
	id "nammasev/pkg/domain"
	dErrors "nammasev/pkg/domain-errors"
	"nammasev/pkg/platform/sentinel"
	"nammasev/pkg/requestcontext"
)

// GetByID returns one complaint with its timeline. Citizens see only their
// own complaints; admins see all.
func (s *Service) GetByID(ctx context.Context, complaintID id.ComplaintID) (*models.Complaint, error) {
	complaint, err := s.store.FindByID(ctx, complaintID)
	if err != nil {
		return nil, wrapLookupErr(err, "complaint")
	}

	if requestcontext.Role(ctx) != id.RoleAdmin && !complaint.IsOwnedBy(requestcontext.Subject(ctx)) {
		return nil, dErrors.New(dErrors.CodeForbidden, "complaint belongs to another citizen")
	}
	return complaint, nil
}

// Track resolves a tracking ID to the redacted public view. No
// authentication and no visibility gate: the tracking ID itself is the
// capability, and it only unlocks lifecycle progress, never identity.
func (s *Service) Track(ctx context.Context, trackingID id.TrackingID) (models.TrackView, error) {
	complaint, err := s.store.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return models.TrackView{}, wrapLookupErr(err, "tracking id")
	}
	return models.BuildTrackView(complaint, requestcontext.Now(ctx)), nil
}

func wrapLookupErr(err error, what string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", what)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store temporarily unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "lookup failed")
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	complaintmodels "nammasev/internal/complaint/models"
	"nammasev/internal/listing/models"
	"nammasev/pkg/platform/sentinel"
)

// hydrationTimeout bounds the parallel timeline and rating fetches for one
// public page.
const hydrationTimeout = 3 * time.Second

// ListPublic returns the transparency page: published complaints ordered
// by resolution recency, optionally narrowed by status and category, each
// hydrated with its redacted timeline and feedback rating, plus the
// aggregate stats. Stats ignore the filter. No authentication.
func (s *Service) ListPublic(ctx context.Context, filter models.PublicFilter) (*models.PublicList, error) {
	filter.PageRequest = filter.Normalize(s.maxLimit)

	complaints, total, err := s.queries.ListPublic(ctx, filter)
	if err != nil {
		return nil, wrapQueryErr(err)
	}

	items, err := s.hydratePublicItems(ctx, complaints)
	if err != nil {
		return nil, wrapQueryErr(err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PublicList{
		Items:      items,
		Pagination: models.NewPagination(filter.PageRequest, total),
		Stats:      stats,
	}, nil
}

// Stats returns the public aggregate, served from the cache when fresh and
// recomputed from the store otherwise.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx); ok {
			return stats, nil
		}
	}
	stats, err := s.queries.PublicStats(ctx)
	if err != nil {
		return models.Stats{}, wrapQueryErr(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

// hydratePublicItems fetches timelines and ratings for a page of published
// complaints in parallel, one goroutine pair per item, with shared
// cancellation on the first failure.
func (s *Service) hydratePublicItems(ctx context.Context, complaints []*complaintmodels.Complaint) ([]models.PublicComplaint, error) {
	items := make([]models.PublicComplaint, len(complaints))
	if len(complaints) == 0 {
		return items, nil
	}

	ctx, cancel := context.WithTimeout(ctx, hydrationTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range complaints {
		items[i] = models.PublicComplaint{
			TrackingID:              c.TrackingID,
			Title:                   c.Title,
			Description:             c.Description,
			Category:                c.Category,
			Status:                  c.Status,
			Location:                c.Location,
			Ward:                    c.Ward,
			EstimatedResolutionDays: c.EstimatedResolutionDays,
			CreatedAt:               c.CreatedAt,
			ResolvedAt:              c.ResolvedAt,
		}

		g.Go(func() error {
			timeline, err := s.queries.TimelineFor(ctx, c.ID)
			if err != nil {
				return err
			}
			rows := make([]complaintmodels.TrackTimelineRow, 0, len(timeline))
			for _, entry := range timeline {
				rows = append(rows, complaintmodels.TrackTimelineRow{
					Status:    entry.Status,
					Remarks:   entry.Remarks,
					CreatedAt: entry.CreatedAt,
				})
			}
			items[i].Timeline = rows
			return nil
		})

		g.Go(func() error {
			feedback, err := s.feedback.FindByComplaint(ctx, c.ID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return nil
				}
				return err
			}
			rating := feedback.Rating
			items[i].Rating = &rating
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

package memory

import (
	"context"
	"sort"
	"strings"

	complaintmodels "nammasev/internal/complaint/models"
	complaintmemory "nammasev/internal/complaint/store/memory"
	feedbackmemory "nammasev/internal/feedback/store/memory"
	"nammasev/internal/listing/models"
	id "nammasev/pkg/domain"
)

// Store answers listing queries over the in-memory complaint and feedback
// stores. Filtering and sorting happen in Go; the Postgres implementation
// pushes the same semantics into SQL.
type Store struct {
	complaints *complaintmemory.Store
	feedback   *feedbackmemory.Store
}

func New(complaints *complaintmemory.Store, feedback *feedbackmemory.Store) *Store {
	return &Store{complaints: complaints, feedback: feedback}
}

func (s *Store) ListByCitizen(ctx context.Context, citizenID id.CitizenID, filter models.OwnerFilter) ([]*complaintmodels.Complaint, int, error) {
	all, err := s.complaints.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	var matched []*complaintmodels.Complaint
	for _, c := range all {
		if !c.IsOwnedBy(citizenID) {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		matched = append(matched, c)
	}
	sortNewestFirst(matched)
	return paginate(matched, filter.PageRequest), len(matched), nil
}

func (s *Store) CountByStatusForCitizen(ctx context.Context, citizenID id.CitizenID) (map[id.Status]int, error) {
	all, err := s.complaints.All(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[id.Status]int)
	for _, c := range all {
		if c.IsOwnedBy(citizenID) {
			counts[c.Status]++
		}
	}
	return counts, nil
}

func (s *Store) ListAdmin(ctx context.Context, filter models.AdminFilter) ([]*complaintmodels.Complaint, int, error) {
	all, err := s.complaints.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var matched []*complaintmodels.Complaint
	for _, c := range all {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && c.Category != *filter.Category {
			continue
		}
		if search != "" && !matchesSearch(c, search) {
			continue
		}
		matched = append(matched, c)
	}
	sortNewestFirst(matched)
	return paginate(matched, filter.PageRequest), len(matched), nil
}

func (s *Store) ListPublic(ctx context.Context, filter models.PublicFilter) ([]*complaintmodels.Complaint, int, error) {
	all, err := s.complaints.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	var matched []*complaintmodels.Complaint
	for _, c := range all {
		if !c.IsPublic {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && c.Category != *filter.Category {
			continue
		}
		matched = append(matched, c)
	}
	// Resolved-most-recently first, then update recency for the rest.
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch {
		case a.ResolvedAt != nil && b.ResolvedAt != nil:
			return a.ResolvedAt.After(*b.ResolvedAt)
		case a.ResolvedAt != nil:
			return true
		case b.ResolvedAt != nil:
			return false
		default:
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	})
	return paginate(matched, filter.PageRequest), len(matched), nil
}

// PublicStats aggregates over published complaints only, mirroring the
// SQL implementation.
func (s *Store) PublicStats(ctx context.Context) (models.Stats, error) {
	all, err := s.complaints.All(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	var stats models.Stats
	public := make(map[id.ComplaintID]bool)
	for _, c := range all {
		if !c.IsPublic {
			continue
		}
		public[c.ID] = true
		stats.Total++
		switch c.Status {
		case id.StatusResolved:
			stats.Resolved++
		case id.StatusInProgress:
			stats.InProgress++
		case id.StatusPending:
			stats.Pending++
		}
	}

	feedback, err := s.feedback.All(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	sum, count := 0, 0
	for _, f := range feedback {
		if public[f.ComplaintID] {
			sum += f.Rating
			count++
		}
	}
	if count > 0 {
		stats.AvgRating = float64(sum) / float64(count)
	}
	return stats, nil
}

func (s *Store) TimelineFor(ctx context.Context, complaintID id.ComplaintID) ([]complaintmodels.TimelineEntry, error) {
	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	return complaint.Timeline, nil
}

func matchesSearch(c *complaintmodels.Complaint, search string) bool {
	return strings.Contains(strings.ToLower(c.Title), search) ||
		strings.Contains(strings.ToLower(c.Description), search) ||
		strings.Contains(strings.ToLower(c.Location), search) ||
		strings.Contains(strings.ToLower(c.TrackingID.String()), search)
}

func sortNewestFirst(complaints []*complaintmodels.Complaint) {
	sort.SliceStable(complaints, func(i, j int) bool {
		return complaints[i].CreatedAt.After(complaints[j].CreatedAt)
	})
}

func paginate(complaints []*complaintmodels.Complaint, page models.PageRequest) []*complaintmodels.Complaint {
	start := page.Offset()
	if start >= len(complaints) {
		return []*complaintmodels.Complaint{}
	}
	end := start + page.Limit
	if end > len(complaints) {
		end = len(complaints)
	}
	return complaints[start:end]
}

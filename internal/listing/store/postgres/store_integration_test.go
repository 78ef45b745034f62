//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	complaintmodels "nammasev/internal/complaint/models"
	complaintpg "nammasev/internal/complaint/store/postgres"
	feedbackmodels "nammasev/internal/feedback/models"
	feedbackpg "nammasev/internal/feedback/store/postgres"
	"nammasev/internal/listing/models"
	"nammasev/internal/listing/store/postgres"
	id "nammasev/pkg/domain"
	"nammasev/pkg/testutil/containers"
)

type ListingStoreSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	store      *postgres.Store
	complaints *complaintpg.Store
	feedback   *feedbackpg.Store
	seq        int
	base       time.Time
}

func TestListingStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ListingStoreSuite))
}

func (s *ListingStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.complaints = complaintpg.New(s.postgres.DB)
	s.feedback = feedbackpg.New(s.postgres.DB)
	s.base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *ListingStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background()))
}

type seed struct {
	owner    id.CitizenID
	title    string
	location string
	category id.Category
	status   id.Status
	public   bool
	rating   int
}

// plant builds a complaint with its full timeline in memory and inserts
// it in one Create, so seeded rows carry deterministic timestamps.
func (s *ListingStoreSuite) plant(sd seed) *complaintmodels.Complaint {
	s.seq++
	createdAt := s.base.Add(time.Duration(s.seq) * time.Hour)

	if sd.title == "" {
		sd.title = fmt.Sprintf("Seeded complaint number %02d", s.seq)
	}
	if sd.location == "" {
		sd.location = "Ward office junction, Tiruppur"
	}
	if sd.category == "" {
		sd.category = id.CategoryRoadInfrastructure
	}
	if sd.owner == (id.CitizenID{}) {
		sd.owner = id.NewCitizenID()
	}

	c, err := complaintmodels.NewComplaint(
		id.NewComplaintID(), sd.owner,
		id.TrackingID(fmt.Sprintf("NMS-%08d", s.seq)),
		complaintmodels.SubmitRequest{
			Title:       sd.title,
			Description: "Seeded for listing queries, long enough to clear validation limits.",
			Category:    string(sd.category),
			Location:    sd.location,
		}, createdAt)
	s.Require().NoError(err)

	adminID := id.NewCitizenID()
	switch sd.status {
	case id.StatusInProgress:
		c.ApplyTransition(id.StatusInProgress, "Crew assigned", adminID, createdAt.Add(time.Hour))
	case id.StatusResolved:
		c.ApplyTransition(id.StatusInProgress, "Crew assigned", adminID, createdAt.Add(time.Hour))
		c.ApplyTransition(id.StatusResolved, "Work completed", adminID, createdAt.Add(2*time.Hour))
	case id.StatusRejected:
		c.ApplyTransition(id.StatusRejected, "Outside city limits", adminID, createdAt.Add(time.Hour))
	}
	if sd.public {
		c.ApplyPublish(createdAt.Add(3 * time.Hour))
	}

	ctx := context.Background()
	s.Require().NoError(s.complaints.Create(ctx, c))

	if sd.rating > 0 {
		fb, err := feedbackmodels.NewFeedback(
			id.NewFeedbackID(), c.ID, sd.owner,
			feedbackmodels.SubmitRequest{Rating: sd.rating},
			createdAt.Add(4*time.Hour))
		s.Require().NoError(err)
		s.Require().NoError(s.feedback.Create(ctx, fb))
	}
	return c
}

func statusPtr(st id.Status) *id.Status       { return &st }
func categoryPtr(ct id.Category) *id.Category { return &ct }

func (s *ListingStoreSuite) TestListByCitizen() {
	ctx := context.Background()
	owner := id.NewCitizenID()
	s.plant(seed{owner: owner, status: id.StatusPending})
	s.plant(seed{owner: owner, status: id.StatusResolved})
	s.plant(seed{status: id.StatusPending})

	s.Run("returns only the citizen's complaints, newest first", func() {
		items, total, err := s.store.ListByCitizen(ctx, owner, models.OwnerFilter{
			PageRequest: models.PageRequest{Page: 1, Limit: 10},
		})
		s.Require().NoError(err)
		s.Equal(2, total)
		s.Require().Len(items, 2)
		s.True(items[0].CreatedAt.After(items[1].CreatedAt))
		for _, c := range items {
			s.Equal(owner, c.CitizenID)
		}
	})

	s.Run("filters by status", func() {
		items, total, err := s.store.ListByCitizen(ctx, owner, models.OwnerFilter{
			Status:      statusPtr(id.StatusResolved),
			PageRequest: models.PageRequest{Page: 1, Limit: 10},
		})
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Require().Len(items, 1)
		s.Equal(id.StatusResolved, items[0].Status)
	})

	s.Run("counts group by status regardless of filter", func() {
		counts, err := s.store.CountByStatusForCitizen(ctx, owner)
		s.Require().NoError(err)
		s.Equal(map[id.Status]int{
			id.StatusPending:  1,
			id.StatusResolved: 1,
		}, counts)
	})

	s.Run("paginates", func() {
		items, total, err := s.store.ListByCitizen(ctx, owner, models.OwnerFilter{
			PageRequest: models.PageRequest{Page: 2, Limit: 1},
		})
		s.Require().NoError(err)
		s.Equal(2, total)
		s.Require().Len(items, 1)
	})
}

func (s *ListingStoreSuite) TestListAdmin() {
	ctx := context.Background()
	s.plant(seed{title: "Burst water pipeline flooding the street", category: id.CategoryWaterSupply, status: id.StatusInProgress})
	s.plant(seed{title: "Street light out near the bus depot", category: id.CategoryStreetLights, status: id.StatusPending})
	tracked := s.plant(seed{category: id.CategoryRoadInfrastructure, status: id.StatusResolved})

	s.Run("filters by status and category", func() {
		items, total, err := s.store.ListAdmin(ctx, models.AdminFilter{
			Status:      statusPtr(id.StatusInProgress),
			Category:    categoryPtr(id.CategoryWaterSupply),
			PageRequest: models.PageRequest{Page: 1, Limit: 10},
		})
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Require().Len(items, 1)
		s.Equal(id.CategoryWaterSupply, items[0].Category)
	})

	s.Run("search is case-insensitive across text columns", func() {
		items, total, err := s.store.ListAdmin(ctx, models.AdminFilter{
			Search:      "BURST PIPELINE",
			PageRequest: models.PageRequest{Page: 1, Limit: 10},
		})
		s.Require().NoError(err)
		s.Equal(0, total, "search terms are matched as one substring")
		s.Empty(items)

		items, total, err = s.store.ListAdmin(ctx, models.AdminFilter{
			Search:      "burst water",
			PageRequest: models.PageRequest{Page: 1, Limit: 10},
		})
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Require().Len(items, 1)
		s.Contains(items[0].Title, "Burst water pipeline")
	})

	s.Run("search matches tracking id", func() {
		items, total, err := s.store.ListAdmin(ctx, models.AdminFilter{
			Search:      tracked.TrackingID.String(),
			PageRequest: models.PageRequest{Page: 1, Limit: 10},
		})
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Require().Len(items, 1)
		s.Equal(tracked.ID, items[0].ID)
	})

	s.Run("no filter returns everything newest first", func() {
		items, total, err := s.store.ListAdmin(ctx, models.AdminFilter{
			PageRequest: models.PageRequest{Page: 1, Limit: 10},
		})
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Require().Len(items, 3)
		s.Equal(tracked.ID, items[0].ID)
	})
}

func (s *ListingStoreSuite) TestListPublic() {
	ctx := context.Background()
	olderResolved := s.plant(seed{status: id.StatusResolved, public: true})
	unresolved := s.plant(seed{status: id.StatusInProgress, category: id.CategoryDrainage, public: true})
	s.plant(seed{status: id.StatusResolved}) // not published
	newerResolved := s.plant(seed{status: id.StatusResolved, public: true})

	items, total, err := s.store.ListPublic(ctx, models.PublicFilter{
		PageRequest: models.PageRequest{Page: 1, Limit: 10},
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(items, 3)

	// Resolved complaints lead, newest resolution first; unresolved trail.
	s.Equal(newerResolved.ID, items[0].ID)
	s.Equal(olderResolved.ID, items[1].ID)
	s.Equal(unresolved.ID, items[2].ID)

	items, total, err = s.store.ListPublic(ctx, models.PublicFilter{
		Status:      statusPtr(id.StatusInProgress),
		PageRequest: models.PageRequest{Page: 1, Limit: 10},
	})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(items, 1)
	s.Equal(unresolved.ID, items[0].ID)

	items, total, err = s.store.ListPublic(ctx, models.PublicFilter{
		Category:    categoryPtr(id.CategoryDrainage),
		PageRequest: models.PageRequest{Page: 1, Limit: 10},
	})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(items, 1)
	s.Equal(unresolved.ID, items[0].ID)
}

func (s *ListingStoreSuite) TestPublicStats() {
	ctx := context.Background()

	s.Run("empty database yields zeroes", func() {
		stats, err := s.store.PublicStats(ctx)
		s.Require().NoError(err)
		s.Equal(models.Stats{}, stats)
	})

	s.Run("aggregates only the published set", func() {
		s.plant(seed{status: id.StatusPending, public: true})
		s.plant(seed{status: id.StatusInProgress, public: true})
		s.plant(seed{status: id.StatusResolved, public: true, rating: 5})
		s.plant(seed{status: id.StatusResolved, public: true, rating: 2})
		s.plant(seed{status: id.StatusRejected, public: true})
		s.plant(seed{status: id.StatusResolved, rating: 1}) // unpublished
		s.plant(seed{status: id.StatusPending})             // unpublished

		stats, err := s.store.PublicStats(ctx)
		s.Require().NoError(err)
		s.Equal(5, stats.Total)
		s.Equal(2, stats.Resolved)
		s.Equal(1, stats.InProgress)
		s.Equal(1, stats.Pending)
		s.InDelta(3.5, stats.AvgRating, 0.001, "ratings on unpublished complaints are excluded")
	})
}

func (s *ListingStoreSuite) TestTimelineFor() {
	ctx := context.Background()
	c := s.plant(seed{status: id.StatusResolved})

	timeline, err := s.store.TimelineFor(ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(timeline, 3)
	s.Equal(id.StatusPending, timeline[0].Status)
	s.Equal(id.StatusInProgress, timeline[1].Status)
	s.Equal(id.StatusResolved, timeline[2].Status)
	s.Equal("Work completed", timeline[2].Remarks)

	empty, err := s.store.TimelineFor(ctx, id.NewComplaintID())
	s.Require().NoError(err)
	s.Empty(empty)
}

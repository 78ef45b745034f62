package memory

import (
	"context"
	"fmt"
	"sync"

	"nammasev/internal/complaint/models"
	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/sentinel"
)

// Store is the in-memory complaint store for tests and local runs. A
// single mutex guards all state, so Execute's validate-then-mutate is
// atomic the same way the Postgres store's FOR UPDATE is.
type Store struct {
	mu         sync.RWMutex
	complaints map[id.ComplaintID]*models.Complaint
	byTracking map[id.TrackingID]id.ComplaintID
}

func New() *Store {
	return &Store{
		complaints: make(map[id.ComplaintID]*models.Complaint),
		byTracking: make(map[id.TrackingID]id.ComplaintID),
	}
}

func (s *Store) Create(_ context.Context, complaint *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.complaints[complaint.ID]; exists {
		return fmt.Errorf("complaint id: %w", sentinel.ErrAlreadyExists)
	}
	if _, exists := s.byTracking[complaint.TrackingID]; exists {
		return fmt.Errorf("tracking id: %w", sentinel.ErrAlreadyExists)
	}
	clone := cloneComplaint(complaint)
	s.complaints[complaint.ID] = clone
	s.byTracking[complaint.TrackingID] = complaint.ID
	return nil
}

func (s *Store) FindByID(_ context.Context, complaintID id.ComplaintID) (*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	complaint, ok := s.complaints[complaintID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneComplaint(complaint), nil
}

func (s *Store) FindByTrackingID(_ context.Context, trackingID id.TrackingID) (*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	complaintID, ok := s.byTracking[trackingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneComplaint(s.complaints[complaintID]), nil
}

func (s *Store) Execute(_ context.Context, complaintID id.ComplaintID,
	validate func(*models.Complaint) error,
	mutate func(*models.Complaint)) (*models.Complaint, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	complaint, ok := s.complaints[complaintID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	working := cloneComplaint(complaint)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.complaints[complaintID] = working
	return cloneComplaint(working), nil
}

// All returns every stored complaint. Listing queries and tests use it.
func (s *Store) All(_ context.Context) ([]*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		all = append(all, cloneComplaint(c))
	}
	return all, nil
}

func cloneComplaint(c *models.Complaint) *models.Complaint {
	clone := *c
	clone.Attachments = append([]string(nil), c.Attachments...)
	clone.Timeline = append([]models.TimelineEntry(nil), c.Timeline...)
	if c.ResolvedAt != nil {
		resolvedAt := *c.ResolvedAt
		clone.ResolvedAt = &resolvedAt
	}
	return &clone
}

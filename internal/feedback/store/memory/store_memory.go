package memory

import (
	"context"
	"sync"

	"nammasev/internal/feedback/models"
	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/sentinel"
)

// Store keeps feedback in memory, one record per complaint.
type Store struct {
	mu          sync.RWMutex
	byComplaint map[id.ComplaintID]*models.Feedback
}

func New() *Store {
	return &Store{byComplaint: make(map[id.ComplaintID]*models.Feedback)}
}

func (s *Store) Create(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byComplaint[feedback.ComplaintID]; exists {
		return sentinel.ErrAlreadyExists
	}
	clone := *feedback
	s.byComplaint[feedback.ComplaintID] = &clone
	return nil
}

// All returns every stored feedback record. Listing stats and tests use it.
func (s *Store) All(_ context.Context) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Feedback, 0, len(s.byComplaint))
	for _, f := range s.byComplaint {
		clone := *f
		all = append(all, &clone)
	}
	return all, nil
}

func (s *Store) FindByComplaint(_ context.Context, complaintID id.ComplaintID) (*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feedback, ok := s.byComplaint[complaintID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *feedback
	return &clone, nil
}

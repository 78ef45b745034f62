package memory

import (
	"context"
	"sync"

	id "nammasev/pkg/domain"
	audit "nammasev/pkg/platform/audit"
)

// InMemoryStore keeps audit events per complaint for tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.ComplaintID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.ComplaintID][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ComplaintID] = append(s.events[event.ComplaintID], event)
	return nil
}

func (s *InMemoryStore) ListByComplaint(_ context.Context, complaintID id.ComplaintID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[complaintID]...), nil
}

// All returns every recorded event. Test helper.
func (s *InMemoryStore) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []audit.Event
	for _, evs := range s.events {
		all = append(all, evs...)
	}
	return all
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.ComplaintID][]audit.Event)
}

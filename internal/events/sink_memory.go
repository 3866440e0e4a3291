package events

import (
	"context"
	"slices"
	"sync"

	id "impulsa/pkg/domain"
)

// MemorySink records events per user. Used for local runs and tests.
type MemorySink struct {
	mu     sync.RWMutex
	events map[id.UserID][]Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make(map[id.UserID][]Event)}
}

func (s *MemorySink) Handle(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.UserID] = append(s.events[e.UserID], e)
	return nil
}

func (s *MemorySink) ListByUser(userID id.UserID) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events[userID])
}

func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.UserID][]Event)
}

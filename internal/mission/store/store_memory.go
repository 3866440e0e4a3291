package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"impulsa/internal/mission/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
)

// InMemoryStore keeps the mission catalogue and attempt history in memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	missions map[id.MissionID]*models.Mission
	attempts map[id.UserID][]*models.Attempt
}

func New() *InMemoryStore {
	return &InMemoryStore{
		missions: make(map[id.MissionID]*models.Mission),
		attempts: make(map[id.UserID][]*models.Attempt),
	}
}

func (s *InMemoryStore) Save(_ context.Context, m *models.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.missions[m.ID]; ok {
		return sentinel.ErrConflict
	}
	s.missions[m.ID] = cloneMission(m)
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, missionID id.MissionID) (*models.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.missions[missionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneMission(m), nil
}

// List returns the catalogue ordered by position, then id.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Mission, 0, len(s.missions))
	for _, m := range s.missions {
		out = append(out, cloneMission(m))
	}
	slices.SortFunc(out, func(a, b *models.Mission) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *InMemoryStore) RecordAttempt(_ context.Context, a *models.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyAttempt := *a
	s.attempts[a.UserID] = append(s.attempts[a.UserID], &copyAttempt)
	return nil
}

// ListAttempts returns the user's attempts at a mission, newest first.
// Attempts sharing a timestamp come back in reverse insertion order.
func (s *InMemoryStore) ListAttempts(_ context.Context, userID id.UserID, missionID id.MissionID) ([]*models.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Attempt
	history := s.attempts[userID]
	for i := len(history) - 1; i >= 0; i-- {
		if a := history[i]; a.MissionID == missionID {
			copyAttempt := *a
			out = append(out, &copyAttempt)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.Attempt) int {
		return b.AttemptedAt.Compare(a.AttemptedAt)
	})
	return out, nil
}

func cloneMission(m *models.Mission) *models.Mission {
	c := *m
	c.Prerequisites = slices.Clone(m.Prerequisites)
	c.Questions = make([]models.Question, len(m.Questions))
	for i, q := range m.Questions {
		q.Options = slices.Clone(q.Options)
		c.Questions[i] = q
	}
	return &c
}

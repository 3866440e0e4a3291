package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
	isync "impulsa/pkg/platform/sync"
)

// Error Contract:
// - ErrNotFound when the user has no progress record
// - ErrConflict when Create collides on id or email
// - errors returned by an Execute callback are passed through unchanged

// InMemoryStore keeps progress records in memory. Execute serializes per user
// through a sharded mutex; the map itself is guarded separately so reads on
// other users are never blocked by a long callback.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]*models.UserProgress
	locks   *isync.ShardedMutex
}

func New() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.UserID]*models.UserProgress),
		locks:   isync.NewShardedMutex(),
	}
}

func (s *InMemoryStore) Create(_ context.Context, p *models.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[p.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.records {
		if strings.EqualFold(existing.Email, p.Email) {
			return sentinel.ErrConflict
		}
	}
	s.records[p.ID] = p.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

// Execute hands fn a private copy of the record and stores it only when fn
// returns nil.
func (s *InMemoryStore) Execute(ctx context.Context, userID id.UserID, fn func(*models.UserProgress) error) (*models.UserProgress, error) {
	key := userID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	working, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(working); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.records[userID] = working.Clone()
	s.mu.Unlock()
	return working, nil
}

// ListTop ranks by points descending with the user id as tiebreaker.
func (s *InMemoryStore) ListTop(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	s.mu.RLock()
	rows := make([]*models.UserProgress, 0, len(s.records))
	for _, p := range s.records {
		rows = append(rows, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(rows, func(a, b *models.UserProgress) int {
		if a.Points != b.Points {
			return b.Points - a.Points
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, p := range rows {
		entries = append(entries, models.LeaderboardEntry{
			Rank:   i + 1,
			UserID: p.ID,
			Name:   p.Name,
			Points: p.Points,
			Level:  p.Level,
		})
	}
	return entries, nil
}

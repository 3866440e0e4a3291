package store

import (
	"context"
	"slices"
	"sync"

	"impulsa/internal/notification/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[id.UserID][]*models.Notification
}

func New() *InMemoryStore {
	return &InMemoryStore{byUser: make(map[id.UserID][]*models.Notification)}
}

func (s *InMemoryStore) Save(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byUser[n.UserID] {
		if existing.ID == n.ID {
			return sentinel.ErrConflict
		}
	}
	stored := *n
	s.byUser[n.UserID] = append(s.byUser[n.UserID], &stored)
	return nil
}

// ListByUser returns newest first. A limit <= 0 returns everything.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, unreadOnly bool, limit int) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.byUser[userID]
	out := make([]*models.Notification, 0, len(all))
	for _, n := range slices.Backward(all) {
		if unreadOnly && n.Read {
			continue
		}
		copied := *n
		out = append(out, &copied)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkRead returns sentinel.ErrNotFound when the notification does not
// belong to userID.
func (s *InMemoryStore) MarkRead(_ context.Context, userID id.UserID, notificationID id.NotificationID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.byUser[userID] {
		if n.ID == notificationID {
			n.Read = true
			copied := *n
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

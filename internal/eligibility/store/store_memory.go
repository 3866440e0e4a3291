package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"impulsa/internal/eligibility/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
)

// InMemoryStore keeps targets and their rules in memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	targets map[id.TargetID]*models.Target
	rules   map[id.TargetID][]*models.Rule
	ruleIDs map[id.RuleID]struct{}
}

func New() *InMemoryStore {
	return &InMemoryStore{
		targets: make(map[id.TargetID]*models.Target),
		rules:   make(map[id.TargetID][]*models.Rule),
		ruleIDs: make(map[id.RuleID]struct{}),
	}
}

func (s *InMemoryStore) SaveTarget(_ context.Context, t *models.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.targets[t.ID]; ok {
		return sentinel.ErrConflict
	}
	copyTarget := *t
	s.targets[t.ID] = &copyTarget
	return nil
}

func (s *InMemoryStore) FindTarget(_ context.Context, targetID id.TargetID) (*models.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[targetID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyTarget := *t
	return &copyTarget, nil
}

// ListTargets returns targets ordered by id.
func (s *InMemoryStore) ListTargets(_ context.Context) ([]*models.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Target, 0, len(s.targets))
	for _, t := range s.targets {
		copyTarget := *t
		out = append(out, &copyTarget)
	}
	slices.SortFunc(out, func(a, b *models.Target) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out, nil
}

// SaveRule appends a rule to its target. Rule ids are unique across targets.
func (s *InMemoryStore) SaveRule(_ context.Context, r *models.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.targets[r.TargetID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := s.ruleIDs[r.ID]; ok {
		return sentinel.ErrConflict
	}
	copyRule := *r
	s.rules[r.TargetID] = append(s.rules[r.TargetID], &copyRule)
	s.ruleIDs[r.ID] = struct{}{}
	return nil
}

// ListRules returns the target's rules in position order.
func (s *InMemoryStore) ListRules(_ context.Context, targetID id.TargetID) ([]*models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := s.rules[targetID]
	out := make([]*models.Rule, 0, len(rules))
	for _, r := range rules {
		copyRule := *r
		out = append(out, &copyRule)
	}
	slices.SortStableFunc(out, func(a, b *models.Rule) int {
		return a.Position - b.Position
	})
	return out, nil
}

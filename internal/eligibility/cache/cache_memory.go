// Package cache holds short-lived eligibility results keyed by user and
// target. Entries older than the TTL are treated as misses; mission
// completions and rule changes invalidate eagerly.
package cache

import (
	"context"
	"sync"
	"time"

	"impulsa/internal/eligibility/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

// InMemoryCache is the single-process result cache.
type InMemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	results map[id.UserID]map[id.TargetID]models.Result
}

func NewInMemory(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		ttl:     ttl,
		results: make(map[id.UserID]map[id.TargetID]models.Result),
	}
}

// Get returns sentinel.ErrNotFound on a miss or a stale entry.
func (c *InMemoryCache) Get(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.results[userID][targetID]
	if !ok || stale(res, c.ttl, requestcontext.Now(ctx)) {
		return nil, sentinel.ErrNotFound
	}
	res.Missing = append([]models.MissingRequirement(nil), res.Missing...)
	return &res, nil
}

func (c *InMemoryCache) Set(_ context.Context, res *models.Result) error {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	byTarget, ok := c.results[res.UserID]
	if !ok {
		byTarget = make(map[id.TargetID]models.Result)
		c.results[res.UserID] = byTarget
	}
	stored := *res
	stored.Missing = append([]models.MissingRequirement(nil), res.Missing...)
	byTarget[res.TargetID] = stored
	return nil
}

func (c *InMemoryCache) InvalidateUser(_ context.Context, userID id.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, userID)
	return nil
}

func (c *InMemoryCache) InvalidateTarget(_ context.Context, targetID id.TargetID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, byTarget := range c.results {
		delete(byTarget, targetID)
	}
	return nil
}

func stale(res models.Result, ttl time.Duration, now time.Time) bool {
	return ttl <= 0 || now.Sub(res.EvaluatedAt) >= ttl
}

package token

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

// MemoryLedger keeps consumed token ids until they expire. Expired ids are
// popped from an expiry heap, so each MarkUsed only pays for what has expired
// since the previous call.
type MemoryLedger struct {
	mu     sync.Mutex
	used   map[string]time.Time
	expiry expiryHeap
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{used: make(map[string]time.Time)}
}

func (l *MemoryLedger) MarkUsed(ctx context.Context, jti string, expiresAt time.Time) error {
	now := requestcontext.Now(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(now)
	if exp, ok := l.used[jti]; ok && exp.After(now) {
		return sentinel.ErrAlreadyUsed
	}
	l.used[jti] = expiresAt
	heap.Push(&l.expiry, usedID{jti: jti, expiresAt: expiresAt})
	return nil
}

func (l *MemoryLedger) evict(now time.Time) {
	for l.expiry.Len() > 0 && !l.expiry[0].expiresAt.After(now) {
		e := heap.Pop(&l.expiry).(usedID)
		// A heap entry is stale when the id was re-marked with a later expiry.
		if exp, ok := l.used[e.jti]; ok && exp.Equal(e.expiresAt) {
			delete(l.used, e.jti)
		}
	}
}

type usedID struct {
	jti       string
	expiresAt time.Time
}

type expiryHeap []usedID

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].expiresAt.Before(h[j].expiresAt) }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x any)        { *h = append(*h, x.(usedID)) }

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

package cache

import (
	"context"
	"errors"
	"log/slog"

	"impulsa/internal/eligibility/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/circuit"
	"impulsa/pkg/platform/sentinel"
)

// Backend is the cache contract shared by the in-memory and Redis caches.
type Backend interface {
	Get(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, error)
	Set(ctx context.Context, res *models.Result) error
	InvalidateUser(ctx context.Context, userID id.UserID) error
	InvalidateTarget(ctx context.Context, targetID id.TargetID) error
}

// Guarded stops reading and writing a failing backend until its breaker lets
// a trial call through, so an unreachable Redis costs one round trip per cooldown
// instead of one per evaluation. Invalidations always reach the backend.
type Guarded struct {
	inner   Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(inner Backend, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if inner == nil {
		panic("cache backend is required")
	}
	if breaker == nil {
		breaker = circuit.New("eligibility-cache")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{inner: inner, breaker: breaker, logger: logger}
}

func (g *Guarded) Get(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, error) {
	if !g.breaker.Allow() {
		return nil, sentinel.ErrNotFound
	}
	res, err := g.inner.Get(ctx, userID, targetID)
	g.record(ctx, err)
	return res, err
}

func (g *Guarded) Set(ctx context.Context, res *models.Result) error {
	if !g.breaker.Allow() {
		return nil
	}
	err := g.inner.Set(ctx, res)
	g.record(ctx, err)
	return err
}

func (g *Guarded) InvalidateUser(ctx context.Context, userID id.UserID) error {
	err := g.inner.InvalidateUser(ctx, userID)
	g.record(ctx, err)
	return err
}

func (g *Guarded) InvalidateTarget(ctx context.Context, targetID id.TargetID) error {
	err := g.inner.InvalidateTarget(ctx, targetID)
	g.record(ctx, err)
	return err
}

func (g *Guarded) record(ctx context.Context, err error) {
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		if g.breaker.RecordSuccess().Closed {
			g.logger.InfoContext(ctx, "eligibility cache recovered", "breaker", g.breaker.Name())
		}
		return
	}
	if g.breaker.RecordFailure().Opened {
		g.logger.WarnContext(ctx, "eligibility cache disabled after repeated failures",
			"breaker", g.breaker.Name(),
			"error", err,
		)
	}
}

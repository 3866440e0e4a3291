package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"impulsa/internal/badge"
	"impulsa/internal/badge/metrics"
	"impulsa/internal/events"
	"impulsa/internal/platform/tracer"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

// ProgressStore reads and atomically updates progress records.
// Execute returns sentinel.ErrNotFound for an unknown user.
type ProgressStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*pmodels.UserProgress, error)
	Execute(ctx context.Context, userID id.UserID, fn func(*pmodels.UserProgress) error) (*pmodels.UserProgress, error)
}

// AreaIndexer maps every catalogue mission to its competence area.
type AreaIndexer interface {
	AreaIndex(ctx context.Context) (map[id.MissionID]string, error)
}

type Emitter interface {
	Emit(ctx context.Context, evs ...events.Event)
}

// Status is a catalogue badge as seen by one user.
type Status struct {
	Badge    badge.Badge
	Earned   bool
	EarnedAt *time.Time
}

type Service struct {
	progress ProgressStore
	areas    AreaIndexer
	engine   *badge.Engine
	emitter  Emitter
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithEmitter(e Emitter) Option {
	return func(s *Service) { s.emitter = e }
}

func New(progress ProgressStore, areas AreaIndexer, engine *badge.Engine, opts ...Option) *Service {
	if progress == nil {
		panic("badge.New: progress store is required")
	}
	if areas == nil {
		panic("badge.New: area indexer is required")
	}
	if engine == nil {
		panic("badge.New: engine is required")
	}
	s := &Service{
		progress: progress,
		areas:    areas,
		engine:   engine,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep awards every satisfied badge the user does not hold yet. It runs
// through the same atomic update as mission completion, so concurrent
// sweeps grant each badge once.
func (s *Service) Sweep(ctx context.Context, userID id.UserID) (awards []badge.Award, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanBadgeSweep,
		tracer.String(tracer.AttrUserID, userID.String()),
	)
	defer func() { span.End(err) }()

	areas, err := s.areas.AreaIndex(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mission areas")
	}
	now := requestcontext.Now(ctx)

	_, err = s.progress.Execute(ctx, userID, func(p *pmodels.UserProgress) error {
		awards = s.engine.Sweep(p, pmodels.NewSnapshot(p, areas), now)
		if len(awards) > 0 {
			p.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncSweep("error")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sweep badges")
	}

	if s.metrics != nil {
		s.metrics.IncSweep("ok")
		s.metrics.AddAwards(len(awards))
	}
	if len(awards) == 0 {
		return []badge.Award{}, nil
	}
	awarded := make([]string, 0, len(awards))
	for _, a := range awards {
		awarded = append(awarded, a.BadgeID.String())
	}
	span.AddEvent(tracer.EventBadgeAwarded, tracer.Strings(tracer.AttrBadgeIDs, awarded))
	if s.emitter != nil {
		evs := make([]events.Event, 0, len(awards))
		for _, a := range awards {
			evs = append(evs, events.Event{
				Kind:       events.KindBadgeAwarded,
				UserID:     userID,
				BadgeID:    a.BadgeID,
				Title:      a.Title,
				Coins:      a.Coins,
				OccurredAt: a.EarnedAt,
			})
		}
		s.emitter.Emit(ctx, evs...)
	}
	s.logger.InfoContext(ctx, "badges awarded by sweep",
		"user_id", userID,
		"count", len(awards),
	)
	return awards, nil
}

// List returns the whole catalogue in authored order with the user's
// earned flags.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]Status, error) {
	p, err := s.progress.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load progress")
	}
	badges := s.engine.Catalogue().Badges()
	out := make([]Status, 0, len(badges))
	for _, b := range badges {
		st := Status{Badge: b}
		if at, ok := p.Badges[b.ID]; ok {
			earned := at
			st.Earned = true
			st.EarnedAt = &earned
		}
		out = append(out, st)
	}
	return out, nil
}

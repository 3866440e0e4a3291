package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sink receives committed events.
type Sink interface {
	Handle(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

// Publisher fans events out to sinks. Sink failures are logged and never
// reach the caller: the state change they describe is already committed.
type Publisher struct {
	sinks  []Sink
	events chan Event
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
}

type Option func(*Publisher)

// WithAsyncBuffer enables async delivery with the given buffer size. Events
// are handed to sinks from a background goroutine.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
			p.async = true
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sinks []Sink, opts ...Option) *Publisher {
	p := &Publisher{sinks: sinks, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.process()
	}
	return p
}

func (p *Publisher) process() {
	defer p.wg.Done()
	for e := range p.events {
		p.deliver(context.Background(), e)
	}
}

// Close stops the async worker and waits for buffered events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// Emit stamps and delivers events in order.
func (p *Publisher) Emit(ctx context.Context, evs ...Event) {
	for _, e := range evs {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.OccurredAt.IsZero() {
			e.OccurredAt = time.Now()
		}
		if !p.async {
			p.deliver(ctx, e)
			continue
		}
		// Non-blocking: a full buffer drops the event rather than stall a request.
		select {
		case p.events <- e:
		default:
			p.logger.WarnContext(ctx, "event buffer full, event dropped",
				"kind", e.Kind,
				"user_id", e.UserID,
			)
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, e Event) {
	for _, sink := range p.sinks {
		if err := sink.Handle(ctx, e); err != nil {
			p.logger.ErrorContext(ctx, "failed to deliver event",
				"kind", e.Kind,
				"event_id", e.ID,
				"user_id", e.UserID,
				"error", err,
			)
		}
	}
}

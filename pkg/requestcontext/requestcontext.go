// Package requestcontext carries per-request values that services read
// without depending on the transport layer.
package requestcontext

import (
	"context"
	"time"
)

type (
	timeKey      struct{}
	requestIDKey struct{}
)

// WithTime pins the request's notion of "now". Handlers set it once so every
// evaluation inside a request sees the same instant.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}

// Now returns the pinned request time, or the wall clock when none is set.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok && !t.IsZero() {
		return t
	}
	return time.Now()
}

// WithRequestID stores the correlation id for logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id or an empty string.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

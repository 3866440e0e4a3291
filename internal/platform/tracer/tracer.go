// Package tracer provides a lightweight tracing abstraction for progression services.
//
// Services depend on the Tracer interface rather than OpenTelemetry APIs so tests
// can run with NoopTracer while production wires OTelTracer.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Strings(key string, values []string) Attribute {
	return Attribute{Key: key, Value: values}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanEligibilityEvaluate    = "eligibility.evaluate"
	SpanEligibilityEvaluateAll = "eligibility.evaluate_all"
	SpanMissionComplete        = "mission.complete"
	SpanBadgeSweep             = "badge.sweep"
	SpanTokenIssue             = "token.issue"
	SpanTokenVerify            = "token.verify"
)

// Attribute keys.
const (
	AttrUserID     = "user.id"
	AttrTargetID   = "eligibility.target_id"
	AttrMissionID  = "mission.id"
	AttrStatus     = "status"
	AttrPercentage = "percentage"
	AttrCacheHit   = "cache.hit"
	AttrRuleCount  = "rule.count"
	AttrReason     = "reason"
	AttrValid      = "token.valid"
	AttrBadgeIDs   = "badge.ids"
	AttrEnv        = "deployment.environment"
)

// Event names.
const (
	EventCacheInvalidated = "cache.invalidated"
	EventBadgeAwarded     = "badge.awarded"
)

package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "impulsa/pkg/domain-errors"
)

// InstrumentationName identifies spans emitted by this service.
const InstrumentationName = "impulsa/progression"

// EventDomainRejected marks a span that ended with an expected domain outcome
// (validation, missing record, state conflict) rather than a fault.
const EventDomainRejected = "domain.rejected"

// OTelTracer adapts an OpenTelemetry tracer to Tracer.
type OTelTracer struct {
	otel trace.Tracer
	base []attribute.KeyValue
}

type OTelOption func(*OTelTracer)

// WithOTelTracer injects a pre-configured OpenTelemetry tracer.
func WithOTelTracer(t trace.Tracer) OTelOption {
	return func(o *OTelTracer) { o.otel = t }
}

// WithBaseAttributes stamps every started span, e.g. the deployment environment.
func WithBaseAttributes(attrs ...Attribute) OTelOption {
	return func(o *OTelTracer) { o.base = append(o.base, convert(attrs)...) }
}

func NewOTel(opts ...OTelOption) *OTelTracer {
	t := &OTelTracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.otel == nil {
		t.otel = otel.Tracer(InstrumentationName)
	}
	return t
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	kvs := append(append([]attribute.KeyValue{}, t.base...), convert(attrs)...)
	ctx, s := t.otel.Start(ctx, name, trace.WithAttributes(kvs...))
	return ctx, otelSpan{s}
}

type otelSpan struct{ trace.Span }

// End keeps client-side rejections out of the error rate: only internal or
// uncoded failures set the span status to Error.
func (s otelSpan) End(err error) {
	defer s.Span.End()
	if err == nil {
		return
	}
	if code := dErrors.CodeOf(err); expected(code) {
		s.Span.AddEvent(EventDomainRejected, trace.WithAttributes(
			attribute.String("error.code", string(code)),
			attribute.String("error.message", err.Error()),
		))
		return
	}
	s.Span.RecordError(err)
	s.Span.SetStatus(codes.Error, err.Error())
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.Span.SetAttributes(convert(attrs)...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.Span.AddEvent(name, trace.WithAttributes(convert(attrs)...))
}

func expected(code dErrors.Code) bool {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeBadRequest, dErrors.CodeInvalidInput,
		dErrors.CodeValidation, dErrors.CodeConflict, dErrors.CodeUnauthorized,
		dErrors.CodeForbidden, dErrors.CodeInvalidState, dErrors.CodeTokenExpired:
		return true
	}
	return false
}

// convert drops attributes whose value type has no OpenTelemetry mapping.
func convert(attrs []Attribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		k := attribute.Key(a.Key)
		switch v := a.Value.(type) {
		case string:
			out = append(out, k.String(v))
		case []string:
			out = append(out, k.StringSlice(v))
		case bool:
			out = append(out, k.Bool(v))
		case int:
			out = append(out, k.Int(v))
		case int64:
			out = append(out, k.Int64(v))
		case float64:
			out = append(out, k.Float64(v))
		}
	}
	return out
}

var (
	_ Tracer = (*OTelTracer)(nil)
	_ Span   = otelSpan{}
)

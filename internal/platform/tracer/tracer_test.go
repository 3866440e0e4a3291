package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"impulsa/internal/platform/tracer"
	dErrors "impulsa/pkg/domain-errors"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanEligibilityEvaluate,
		tracer.String(tracer.AttrTargetID, "feria-emprendimiento-2025"),
		tracer.Bool(tracer.AttrCacheHit, false),
	)

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Float64(tracer.AttrPercentage, 62.5))
	span.AddEvent(tracer.EventCacheInvalidated, tracer.Int64(tracer.AttrRuleCount, 3))
	span.End(errors.New("boom"))
}

func TestOTelTracer_WithInjectedTracer(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), tracer.SpanMissionComplete,
		tracer.String(tracer.AttrMissionID, "fundamentos-quiz"),
		tracer.Int64("points", 50),
	)
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Bool("passed", true), tracer.Duration("elapsed", 120*time.Millisecond))
	span.End(nil)
}

func TestAttributeConstructors(t *testing.T) {
	t.Run("Duration is milliseconds", func(t *testing.T) {
		attr := tracer.Duration("latency", 150*time.Millisecond)
		assert.Equal(t, "latency", attr.Key)
		assert.Equal(t, int64(150), attr.Value)
	})

	t.Run("Float64", func(t *testing.T) {
		attr := tracer.Float64(tracer.AttrPercentage, 66.67)
		assert.Equal(t, 66.67, attr.Value)
	})
}

func TestOTelTracer_EndClassifiesErrors(t *testing.T) {
	tr := tracer.NewOTel(
		tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")),
		tracer.WithBaseAttributes(tracer.String(tracer.AttrEnv, "test")),
	)

	for _, err := range []error{
		nil,
		dErrors.New(dErrors.CodeInvalidState, "mission already completed"),
		errors.New("connection reset"),
	} {
		_, span := tr.Start(context.Background(), tracer.SpanBadgeSweep,
			tracer.Strings(tracer.AttrBadgeIDs, []string{"primer-paso", "racha-7"}),
		)
		assert.NotPanics(t, func() { span.End(err) })
	}
}

package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	var o *Observability
	ctx := context.Background()

	spanCtx, span := o.StartSpan(ctx, "plan-queries")
	assert.NotNil(t, spanCtx)
	EndSpan(span, errors.New("boom"))

	o.RecordJobProcessed(ctx, "select-items", "completed")
	o.RecordJobDuration(ctx, "select-items", time.Second)
	o.RecordStageDuration(ctx, "select-items", "fallback", time.Second)
	o.Shutdown()
}

func TestObservability_StartSpan(t *testing.T) {
	o := New("test-service")
	defer o.Shutdown()

	ctx, span := o.StartSpan(context.Background(), "dispatch-search")
	defer EndSpan(span, nil)

	assert.True(t, span.SpanContext().IsValid())
	assert.NotNil(t, ctx)
}

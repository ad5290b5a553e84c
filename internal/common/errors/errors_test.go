package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDegradation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable sentinel", fmt.Errorf("genai: %w", ErrCapabilityUnavailable), true},
		{"timeout sentinel", fmt.Errorf("catalog: %w", ErrCapabilityTimeout), true},
		{"malformed sentinel", fmt.Errorf("ranker: %w", ErrMalformedOutput), true},
		{"deadline", context.DeadlineExceeded, true},
		{"standard timeout", NewCapabilityTimeoutError("web-search", time.Second), true},
		{"invalid series", NewInvalidSeriesError("p1", "duplicate date"), false},
		{"plain", stderrors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDegradation(tt.err))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("keeps standard error", func(t *testing.T) {
		in := NewInvalidSeriesError("p1", "negative quantity")
		assert.Same(t, in, Normalize(fmt.Errorf("wrapped: %w", in)))
	})

	t.Run("cancellation", func(t *testing.T) {
		assert.Equal(t, ErrCodeRequestCancelled, Normalize(context.Canceled).Code)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		got := Normalize(stderrors.New("boom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "boom", got.Details)
	})
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInventoryQueryFailedError(cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, err.Retryable)
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewInventoryQueryFailedError(stderrors.New("timeout"))
	bpmnErr := ConvertToBPMNError(stdErr)

	require.NotNil(t, bpmnErr)
	assert.Equal(t, "INVENTORY_QUERY_FAILED", bpmnErr.Code)
	assert.Equal(t, 3, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "INVENTORY_QUERY_FAILED", vars["originalErrorCode"])
	assert.Equal(t, true, vars["retryable"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CAPABILITY", GetErrorCategory(ErrCodeCapabilityTimeout))
	assert.Equal(t, "CAPABILITY", GetErrorCategory(ErrCodeMalformedCapabilityOutput))
	assert.Equal(t, "FORECASTING", GetErrorCategory(ErrCodeInvalidSeries))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeCatalogSearchFailed))
	assert.Equal(t, "RECOMMENDATION", GetErrorCategory(ErrCodePaymentSimulationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

package resolveunfound

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

// ==========================
// Resolve
// ==========================

func priced(title, snippet string) []models.WebResult {
	return []models.WebResult{{Title: title, Link: "https://example.com/" + title, Snippet: snippet}}
}

func TestResolve_SequentialDebit(t *testing.T) {
	batches := map[string][]models.WebResult{
		"x": priced("X", "$30"),
		"y": priced("Y", "$20"),
	}

	items, remaining := Resolve([]string{"x", "y"}, batches, 100)

	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[0].WithinBudget)
	assert.InDelta(t, 90.0, *items[0].LineTotal, 1e-9)

	assert.Equal(t, 1, items[1].Quantity)
	assert.False(t, items[1].WithinBudget)
	assert.InDelta(t, 20.0, *items[1].UnitPrice, 1e-9)
	assert.InDelta(t, 10.0, remaining, 1e-9)
	assert.InDelta(t, 90.0, DebitedTotal(items), 1e-9)
}

func TestResolve_OrderChangesAllocation(t *testing.T) {
	batches := map[string][]models.WebResult{
		"x": priced("X", "$30"),
		"y": priced("Y", "$20"),
	}

	items, remaining := Resolve([]string{"y", "x"}, batches, 100)

	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.False(t, items[1].WithinBudget)
	assert.InDelta(t, 0.0, remaining, 1e-9)
}

func TestResolve_Boundaries(t *testing.T) {
	tests := []struct {
		name          string
		remaining     float64
		price         string
		wantQty       int
		wantWithin    bool
		wantRemaining float64
	}{
		{name: "remaining equals price", remaining: 20, price: "$20", wantQty: 1, wantWithin: true, wantRemaining: 0},
		{name: "remaining below price", remaining: 19.99, price: "$20", wantQty: 1, wantWithin: false, wantRemaining: 19.99},
		{name: "capped at 99", remaining: 1000, price: "$1", wantQty: 99, wantWithin: true, wantRemaining: 901},
		{name: "zero budget", remaining: 0, price: "$5", wantQty: 1, wantWithin: false, wantRemaining: 0},
		{name: "no price", remaining: 50, price: "", wantQty: 1, wantWithin: false, wantRemaining: 50},
		{name: "huge budget capped at 99", remaining: 1e20, price: "$1", wantQty: 99, wantWithin: true, wantRemaining: 1e20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := map[string][]models.WebResult{"q": priced("Q", tt.price)}
			items, remaining := Resolve([]string{"q"}, batches, tt.remaining)

			require.Len(t, items, 1)
			assert.Equal(t, tt.wantQty, items[0].Quantity)
			assert.Equal(t, tt.wantWithin, items[0].WithinBudget)
			assert.InDelta(t, tt.wantRemaining, remaining, 1e-9)
			assert.GreaterOrEqual(t, remaining, 0.0)
		})
	}
}

func TestResolve_InfiniteBudget(t *testing.T) {
	items, remaining := Resolve([]string{"q"}, map[string][]models.WebResult{"q": priced("Q", "$3")}, math.Inf(1))

	require.Len(t, items, 1)
	assert.Equal(t, MaxQuantity, items[0].Quantity)
	assert.True(t, items[0].WithinBudget)
	assert.InDelta(t, 297.0, *items[0].LineTotal, 1e-9)
	assert.True(t, math.IsInf(remaining, 1))
}

func TestResolve_NoPriceLeavesTotalsEmpty(t *testing.T) {
	items, _ := Resolve([]string{"q"}, map[string][]models.WebResult{"q": priced("Q", "call for price")}, 10)

	assert.Nil(t, items[0].UnitPrice)
	assert.Nil(t, items[0].LineTotal)
}

func TestResolve_MissingBatchUsesLinkOnly(t *testing.T) {
	items, remaining := Resolve([]string{"garden hose"}, nil, 40)

	require.Len(t, items, 1)
	assert.Equal(t, "garden hose", items[0].Name)
	assert.Contains(t, items[0].Link, "q=garden+hose")
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 40.0, remaining)
}

// ==========================
// Execute
// ==========================

type mockWebSearcher struct {
	mock.Mock
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *mockWebSearcher) Search(ctx context.Context, query string) ([]models.WebResult, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)

	args := m.Called(ctx, query)
	results, _ := args.Get(0).([]models.WebResult)
	return results, args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, Concurrency: 4}
}

func TestHandler_Execute_FetchesMissingConcurrently(t *testing.T) {
	searcher := new(mockWebSearcher)
	searcher.On("Search", mock.Anything, "a").Return(priced("A", "$10"), nil)
	searcher.On("Search", mock.Anything, "b").Return(priced("B", "$25"), nil)
	searcher.On("Search", mock.Anything, "c").Return(nil, errors.New("quota exceeded"))

	handler := NewHandler(createTestConfig(), searcher, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		Queries: []string{"a", "b", "c", "d"},
		Batches: map[string][]models.WebResult{
			"d": priced("D", "$1"),
		},
		RemainingBudget: 60,
	})

	require.NoError(t, err)
	require.Len(t, output.UnfoundItems, 4)

	assert.Equal(t, "A", output.UnfoundItems[0].Name)
	assert.Equal(t, 6, output.UnfoundItems[0].Quantity)
	assert.Equal(t, 1, output.UnfoundItems[1].Quantity)
	assert.False(t, output.UnfoundItems[1].WithinBudget)
	assert.Equal(t, "c", output.UnfoundItems[2].Name)
	assert.Equal(t, 1, output.UnfoundItems[3].Quantity)
	assert.False(t, output.UnfoundItems[3].WithinBudget)

	assert.InDelta(t, 0.0, output.RemainingBudget, 1e-9)
	assert.InDelta(t, 60.0, output.DebitedTotal, 1e-9)
	searcher.AssertNotCalled(t, "Search", mock.Anything, "d")
	assert.Greater(t, searcher.peak.Load(), int32(1))
}

func TestHandler_Execute_NoQueries(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{RemainingBudget: -5})

	require.NoError(t, err)
	assert.Empty(t, output.UnfoundItems)
	assert.Zero(t, output.RemainingBudget)
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	searcher := new(mockWebSearcher)
	searcher.On("Search", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	handler := NewHandler(createTestConfig(), searcher, logger.NewTestLogger(t))
	_, err := handler.Execute(ctx, &Input{Queries: []string{"a"}, RemainingBudget: 10})

	assert.ErrorIs(t, err, context.Canceled)
}

package dispatchsearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	args := m.Called(ctx, query)
	results, _ := args.Get(0).([]models.SearchResult)
	return results, args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func TestHandler_Execute_MergeAndClassify(t *testing.T) {
	searcher := new(mockSearcher)
	searcher.On("Search", mock.Anything, "a").Return([]models.SearchResult{
		{ProductID: "p1", Name: "Widget", Price: 4},
		{ProductID: "p2", Name: "Gadget", Price: 6},
	}, nil).Once()
	searcher.On("Search", mock.Anything, "b").Return([]models.SearchResult{}, nil).Once()
	searcher.On("Search", mock.Anything, "c").Return([]models.SearchResult{
		{ProductID: "p1", Name: "Widget", Price: 9},
		{ProductID: "p3", Name: "Doohickey", Price: 2},
	}, nil).Once()

	handler := NewHandler(createTestConfig(), searcher, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{Queries: []string{"a", "b", "c"}})

	require.NoError(t, err)
	require.Len(t, output.Pool, 3)
	assert.Equal(t, "p1", output.Pool[0].ProductID)
	assert.Equal(t, 4.0, output.Pool[0].Price)
	assert.Equal(t, "a", output.Pool[0].Query)
	assert.Equal(t, "p3", output.Pool[2].ProductID)
	assert.Equal(t, "c", output.Pool[2].Query)

	assert.Equal(t, []string{"a", "c"}, output.Found)
	assert.Equal(t, []string{"b"}, output.Unfound)
	assert.Equal(t, []string{"a", "b", "c"}, output.QueriesRun)
	assert.Equal(t, 1, output.Duplicates)
	searcher.AssertExpectations(t)
}

func TestHandler_Execute_SkipsResultsWithoutProductID(t *testing.T) {
	searcher := new(mockSearcher)
	searcher.On("Search", mock.Anything, "mugs").Return([]models.SearchResult{
		{Name: "Unlisted Mug", Price: 3},
		{ProductID: "m1", Name: "Blue Mug", Price: 5},
		{Name: "Another Unlisted Mug", Price: 4},
		{ProductID: "m2", Name: "Red Mug", Price: 6},
	}, nil).Once()
	searcher.On("Search", mock.Anything, "plates").Return([]models.SearchResult{
		{Name: "Loose Plate", Price: 2},
	}, nil).Once()

	handler := NewHandler(createTestConfig(), searcher, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{Queries: []string{"mugs", "plates"}})

	require.NoError(t, err)
	require.Len(t, output.Pool, 2)
	assert.Equal(t, "m1", output.Pool[0].ProductID)
	assert.Equal(t, "m2", output.Pool[1].ProductID)
	assert.Zero(t, output.Duplicates)
	assert.Equal(t, []string{"mugs"}, output.Found)
	assert.Equal(t, []string{"plates"}, output.Unfound)
}

func TestHandler_Execute_FailureIsolated(t *testing.T) {
	searcher := new(mockSearcher)
	searcher.On("Search", mock.Anything, "broken").Return(nil, errors.New("index missing")).Once()
	searcher.On("Search", mock.Anything, "fine").Return([]models.SearchResult{
		{ProductID: "p9", Name: "Lamp", Price: 20},
	}, nil).Once()

	handler := NewHandler(createTestConfig(), searcher, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{Queries: []string{"broken", "fine"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, output.Unfound)
	assert.Equal(t, []string{"fine"}, output.Found)
	require.Len(t, output.Pool, 1)
	searcher.AssertNumberOfCalls(t, "Search", 2)
}

func TestHandler_Execute_SequentialOrder(t *testing.T) {
	var order []string
	searcher := new(mockSearcher)
	searcher.On("Search", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, args.String(1)) }).
		Return([]models.SearchResult{}, nil)

	handler := NewHandler(createTestConfig(), searcher, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{Queries: []string{"z", "y", "x"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x"}, order)
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	searcher := new(mockSearcher)
	searcher.On("Search", mock.Anything, "first").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled).Once()

	handler := NewHandler(createTestConfig(), searcher, logger.NewTestLogger(t))
	_, err := handler.Execute(ctx, &Input{Queries: []string{"first", "second"}})

	assert.ErrorIs(t, err, context.Canceled)
	searcher.AssertNumberOfCalls(t, "Search", 1)
}

package forecastinventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

// ==========================
// Mocks
// ==========================

type mockSource struct {
	mock.Mock
}

func (m *mockSource) History(ctx context.Context, productID string, since time.Time) ([]models.TimeSeriesPoint, error) {
	args := m.Called(ctx, productID, since)
	points, _ := args.Get(0).([]models.TimeSeriesPoint)
	return points, args.Error(1)
}

func (m *mockSource) ReorderParams(ctx context.Context, productID string) (models.ReorderParams, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(models.ReorderParams), args.Error(1)
}

func (m *mockSource) ProductIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject, message string, attributes map[string]string) (string, error) {
	args := m.Called(ctx, subject, message, attributes)
	return args.String(0), args.Error(1)
}

// ==========================
// Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		HorizonDays:     7,
		Params:          DefaultParams(),
		HistoryDays:     90,
		AlertWithinDays: 3,
	}
}

func dailySeries(start time.Time, onHand ...int) []models.TimeSeriesPoint {
	points := make([]models.TimeSeriesPoint, len(onHand))
	for i, q := range onHand {
		points[i] = models.TimeSeriesPoint{Date: start.AddDate(0, 0, i), QuantityOnHand: q}
	}
	return points
}

var seriesStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// ==========================
// Execute
// ==========================

func TestHandler_Execute_InlineSeries(t *testing.T) {
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, "Reorder SKU-A within 1 days", mock.Anything, mock.Anything).
		Return("msg-1", nil)

	handler := NewHandler(createTestConfig(), nil, publisher, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		Series: map[string][]models.TimeSeriesPoint{
			"SKU-A": dailySeries(seriesStart, 10, 8, 6, 4),
			"SKU-B": dailySeries(seriesStart, 5, 6, 7, 8),
		},
		Reorder: map[string]models.ReorderParams{
			"SKU-A": {ReorderPoint: 5, ReorderQty: 40},
			"SKU-B": {ReorderPoint: 5, ReorderQty: 40},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 7, output.HorizonDays)
	require.Len(t, output.Forecasts, 2)

	a := output.Forecasts[0]
	assert.Equal(t, "SKU-A", a.ProductID)
	assert.Equal(t, []int{2, 0, 0, 0, 0, 0, 0}, a.Forecast)
	require.NotNil(t, a.DaysUntilReorder)
	assert.Equal(t, 1, *a.DaysUntilReorder)

	assert.Nil(t, output.Forecasts[1].DaysUntilReorder)
	assert.Equal(t, []string{"SKU-A"}, output.ReorderNeeded)
	assert.Equal(t, 1, output.AlertsSent)
	publisher.AssertExpectations(t)
}

func TestHandler_Execute_FromSource(t *testing.T) {
	source := new(mockSource)
	source.On("ProductIDs", mock.Anything).Return([]string{"SKU-9"}, nil)
	source.On("History", mock.Anything, "SKU-9", mock.Anything).
		Return(dailySeries(seriesStart, 50, 50, 50), nil)
	source.On("ReorderParams", mock.Anything, "SKU-9").
		Return(models.ReorderParams{ProductID: "SKU-9", ReorderPoint: 10, ReorderQty: 30}, nil)

	handler := NewHandler(createTestConfig(), source, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{HorizonDays: 120})

	require.NoError(t, err)
	assert.Equal(t, 90, output.HorizonDays)
	require.Len(t, output.Forecasts, 1)
	assert.Len(t, output.Forecasts[0].Forecast, 90)
	assert.Equal(t, 10, output.Forecasts[0].ReorderPoint)
	assert.Nil(t, output.Forecasts[0].DaysUntilReorder)
	source.AssertExpectations(t)
}

func TestHandler_Execute_MalformedSeries(t *testing.T) {
	series := dailySeries(seriesStart, 10, 9, 8)
	series[2].Date = series[0].Date

	handler := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{
		Series: map[string][]models.TimeSeriesPoint{"SKU-X": series},
	})

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeInvalidSeries, stdErr.Code)
}

func TestHandler_Execute_SourceFailure(t *testing.T) {
	source := new(mockSource)
	source.On("History", mock.Anything, "SKU-1", mock.Anything).Return(nil, errors.New("db down"))

	handler := NewHandler(createTestConfig(), source, nil, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{ProductIDs: []string{"SKU-1"}})

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeInventoryQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_NoProducts(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{})

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
	assert.Equal(t, ErrNoProducts.Error(), stdErr.Details)
}

func TestHandler_Execute_AlertFailureDoesNotFailJob(t *testing.T) {
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("throttled"))

	handler := NewHandler(createTestConfig(), nil, publisher, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		Series:  map[string][]models.TimeSeriesPoint{"SKU-A": dailySeries(seriesStart, 10, 8, 6, 4)},
		Reorder: map[string]models.ReorderParams{"SKU-A": {ReorderPoint: 5}},
	})

	require.NoError(t, err)
	assert.Zero(t, output.AlertsSent)
	assert.Equal(t, []string{"SKU-A"}, output.ReorderNeeded)
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))
	_, err := handler.Execute(ctx, &Input{
		Series: map[string][]models.TimeSeriesPoint{"SKU-A": dailySeries(seriesStart, 1, 2)},
	})

	assert.ErrorIs(t, err, context.Canceled)
}

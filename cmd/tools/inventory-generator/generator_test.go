package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forecastinventory "purchase-advisor/internal/workers/forecasting/forecast-inventory"
)

func day(s string) time.Time {
	d, _ := time.Parse(dateLayout, s)
	return d
}

func TestSeasonalMultiplier(t *testing.T) {
	tests := []struct {
		date string
		want float64
	}{
		{date: "2024-11-29", want: 1.85},
		{date: "2024-12-10", want: 1.55},
		{date: "2024-12-28", want: 1.0},
		{date: "2024-09-03", want: 1.25},
		{date: "2024-08-20", want: 1.25},
		{date: "2024-07-04", want: 0.82},
		{date: "2024-08-05", want: 0.82},
		{date: "2024-01-15", want: 0.78},
		{date: "2024-04-15", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, seasonalMultiplier(day(tt.date)))
		})
	}
}

func TestWeekdayMultiplier(t *testing.T) {
	assert.Equal(t, 0.95, weekdayMultiplier(day("2024-04-15"))) // Monday
	assert.Equal(t, 1.38, weekdayMultiplier(day("2024-04-20"))) // Saturday
	assert.Equal(t, 1.28, weekdayMultiplier(day("2024-04-21"))) // Sunday
}

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := Products(rng, 3)
	records := Generate(rng, products, day("2024-01-01"), 60)

	require.Len(t, records, 180)
	for _, r := range records {
		assert.GreaterOrEqual(t, r.QuantityOnHand, 0)
		assert.GreaterOrEqual(t, r.QuantitySold, 0)
	}
	assert.Equal(t, "2024-01-01", records[0].Date)
	assert.Equal(t, "2024-02-29", records[59].Date)
	assert.Equal(t, products[1].ID, records[60].ProductID)
}

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate(rand.New(rand.NewSource(7)), []Product{{ID: "SKU-001", SalesMean: 5, StartStock: 60, ReorderPoint: 35, ReorderQty: 105}}, day("2024-03-01"), 30)
	second := Generate(rand.New(rand.NewSource(7)), []Product{{ID: "SKU-001", SalesMean: 5, StartStock: 60, ReorderPoint: 35, ReorderQty: 105}}, day("2024-03-01"), 30)
	assert.Equal(t, first, second)
}

func TestGenerate_FeedsForecaster(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	records := Generate(rng, Products(rng, 1), day("2024-05-01"), 90)

	series := make([]float64, 0, len(records))
	for _, r := range records {
		p, err := r.Point()
		require.NoError(t, err)
		series = append(series, float64(p.QuantityOnHand))
	}

	result := forecastinventory.Forecast(series, forecastinventory.DefaultParams(), 14)
	assert.Len(t, result.Forecast, 14)
}

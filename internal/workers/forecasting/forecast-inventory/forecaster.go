// internal/workers/forecasting/forecast-inventory/forecaster.go
package forecastinventory

import (
	"fmt"
	"math"
	"time"

	"purchase-advisor/internal/models"
)

const (
	DefaultAlpha = 0.3
	DefaultBeta  = 0.1

	MinHorizonDays     = 7
	MaxHorizonDays     = 90
	DefaultHorizonDays = 30
)

// Params are the Holt smoothing weights. Values outside (0,1) fall back to
// the defaults.
type Params struct {
	Alpha float64
	Beta  float64
}

func DefaultParams() Params {
	return Params{Alpha: DefaultAlpha, Beta: DefaultBeta}
}

func (p Params) normalized() Params {
	if !(p.Alpha > 0 && p.Alpha < 1) {
		p.Alpha = DefaultAlpha
	}
	if !(p.Beta > 0 && p.Beta < 1) {
		p.Beta = DefaultBeta
	}
	return p
}

// ClampHorizon bounds a requested horizon to [7,90]; zero selects the default.
func ClampHorizon(days int) int {
	switch {
	case days == 0:
		return DefaultHorizonDays
	case days < MinHorizonDays:
		return MinHorizonDays
	case days > MaxHorizonDays:
		return MaxHorizonDays
	}
	return days
}

// Forecast runs double exponential smoothing over a dense series and projects
// horizon steps ahead. An empty series yields an empty forecast with zero
// level and trend.
func Forecast(series []float64, params Params, horizon int) models.ForecastResult {
	if len(series) == 0 {
		return models.ForecastResult{Forecast: []int{}}
	}
	params = params.normalized()

	level := series[0]
	trend := 0.0
	if len(series) >= 2 {
		trend = series[1] - series[0]
	}

	for _, x := range series[1:] {
		prev := level
		level = params.Alpha*x + (1-params.Alpha)*(prev+trend)
		trend = params.Beta*(level-prev) + (1-params.Beta)*trend
	}

	if horizon < 0 {
		horizon = 0
	}
	forecast := make([]int, horizon)
	for k := 1; k <= horizon; k++ {
		v := math.Round(level + float64(k)*trend)
		if v < 0 {
			v = 0
		}
		forecast[k-1] = int(v)
	}

	return models.ForecastResult{
		Forecast: forecast,
		Level:    level,
		Trend:    trend,
	}
}

// ProjectReorder reports the first forecast day at or below the reorder
// point. A crossing is only projected for a declining trend.
func ProjectReorder(result models.ForecastResult, reorderPoint int) models.ReorderProjection {
	projection := models.ReorderProjection{ReorderPoint: reorderPoint}
	if reorderPoint <= 0 || result.Trend >= 0 {
		return projection
	}
	for i, v := range result.Forecast {
		if v <= reorderPoint {
			days := i + 1
			projection.DaysUntilReorder = &days
			return projection
		}
	}
	return projection
}

// validateSeries rejects out-of-order or duplicate days and negative
// quantities.
func validateSeries(points []models.TimeSeriesPoint) error {
	var prev time.Time
	for i, p := range points {
		if p.QuantityOnHand < 0 || p.QuantitySold < 0 {
			return fmt.Errorf("negative quantity on %s", p.Date.Format("2006-01-02"))
		}
		day := truncateDay(p.Date)
		if i > 0 && !day.After(prev) {
			return fmt.Errorf("dates not strictly ascending at %s", p.Date.Format("2006-01-02"))
		}
		prev = day
	}
	return nil
}

// densify converts points into one on-hand value per calendar day, carrying
// the last observation across gaps.
func densify(points []models.TimeSeriesPoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	series := []float64{float64(points[0].QuantityOnHand)}
	last := truncateDay(points[0].Date)
	for _, p := range points[1:] {
		day := truncateDay(p.Date)
		for gap := int(day.Sub(last).Hours()/24) - 1; gap > 0; gap-- {
			series = append(series, series[len(series)-1])
		}
		series = append(series, float64(p.QuantityOnHand))
		last = day
	}
	return series
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// internal/workers/forecasting/plan-reorder/planner.go
package planreorder

import (
	"math"
	"sort"

	forecastinventory "purchase-advisor/internal/workers/forecasting/forecast-inventory"
)

const DefaultSupplier = "Unknown"

// Plan simulates each item day by day over the window and schedules at most
// one order per item, placed lead days before its first stockout. Items that
// never stock out are omitted.
func Plan(items []ItemInput, window, lead int) *Output {
	out := &Output{
		WindowDays:   window,
		LeadTimeDays: lead,
		Orders:       []PlannedOrder{},
	}

	for _, item := range items {
		usage := dailyUsage(item, window)
		if order, ok := planItem(item, usage, lead); ok {
			out.Orders = append(out.Orders, order)
			out.DynamicCost += order.EstimatedCost
		}
		// Recurring baseline: repeat the last order once if it lands in the window.
		if item.LastOrderQty > 0 && lead <= window-1 {
			out.BaselineCost += item.LastOrderQty * item.UnitCost
		}
	}

	sort.SliceStable(out.Orders, func(i, j int) bool {
		if out.Orders[i].OrderDay != out.Orders[j].OrderDay {
			return out.Orders[i].OrderDay < out.Orders[j].OrderDay
		}
		return out.Orders[i].EstimatedCost > out.Orders[j].EstimatedCost
	})

	out.DynamicCost = round2(out.DynamicCost)
	out.BaselineCost = round2(out.BaselineCost)
	out.Savings = round2(out.BaselineCost - out.DynamicCost)
	return out
}

func planItem(item ItemInput, usage []float64, lead int) (PlannedOrder, bool) {
	start := item.LastOrderQty
	if item.StartingInventory != nil {
		start = *item.StartingInventory
	}
	deliveries := make([]float64, len(usage))
	for _, d := range item.Deliveries {
		if d.Day >= 0 && d.Day < len(deliveries) {
			deliveries[d.Day] += d.Quantity
		}
	}

	stockout := -1
	inv := start
	for day := range usage {
		inv += deliveries[day] - usage[day]
		if inv < 0 {
			stockout = day
			break
		}
	}
	if stockout < 0 {
		return PlannedOrder{}, false
	}

	orderDay := stockout - lead
	late := false
	if orderDay < 0 {
		orderDay = 0
		late = true
	}
	deliveryDay := orderDay + lead

	morning := start
	need := 0.0
	for day := range usage {
		if day < deliveryDay {
			morning += deliveries[day] - usage[day]
		} else {
			need += usage[day]
		}
	}
	qty := math.Max(0, need-math.Max(0, morning))

	supplier := item.Supplier
	if supplier == "" {
		supplier = DefaultSupplier
	}

	return PlannedOrder{
		Name:          item.Name,
		Supplier:      supplier,
		Unit:          item.Unit,
		OrderDay:      orderDay,
		DeliveryDay:   deliveryDay,
		StockoutDay:   stockout,
		Quantity:      round2(qty),
		UnitCost:      item.UnitCost,
		EstimatedCost: round2(qty * item.UnitCost),
		Late:          late,
	}, true
}

// dailyUsage returns exactly window values. Explicit usage wins; a short
// list is padded with its median. Without usage, the sales history is
// projected forward with Holt smoothing.
func dailyUsage(item ItemInput, window int) []float64 {
	usage := make([]float64, window)
	switch {
	case len(item.DailyUsage) > 0:
		fill := median(item.DailyUsage)
		for i := range usage {
			if i < len(item.DailyUsage) {
				usage[i] = math.Max(0, item.DailyUsage[i])
			} else {
				usage[i] = fill
			}
		}
	case len(item.SalesHistory) > 0:
		result := forecastinventory.Forecast(item.SalesHistory, forecastinventory.DefaultParams(), window)
		for i, v := range result.Forecast {
			usage[i] = float64(v)
		}
	}
	return usage
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return math.Max(0, sorted[n/2])
	}
	return math.Max(0, (sorted[n/2-1]+sorted[n/2])/2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

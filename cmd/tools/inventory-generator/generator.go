// cmd/tools/inventory-generator/generator.go
package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"purchase-advisor/internal/models"
)

// Product is one synthetic SKU and the parameters driving its history.
type Product struct {
	ID           string
	SalesMean    float64
	StartStock   int
	ReorderPoint int
	ReorderQty   int
}

// Record is one product-day of generated inventory.
type Record struct {
	ProductID        string `json:"productId"`
	Date             string `json:"date"`
	QuantityOnHand   int    `json:"quantityOnHand"`
	QuantitySold     int    `json:"quantitySold"`
	QuantityReceived int    `json:"quantityReceived"`
}

func (r Record) Point() (models.TimeSeriesPoint, error) {
	day, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return models.TimeSeriesPoint{}, err
	}
	return models.TimeSeriesPoint{Date: day, QuantityOnHand: r.QuantityOnHand, QuantitySold: r.QuantitySold}, nil
}

const dateLayout = "2006-01-02"

var weekdayMultipliers = [7]float64{0.95, 1.0, 1.02, 1.0, 1.15, 1.38, 1.28} // Mon..Sun

// seasonalMultiplier models retail peaks around Black Friday, December and
// back-to-school, with a summer dip and a January lull.
func seasonalMultiplier(day time.Time) float64 {
	month, d := day.Month(), day.Day()
	switch {
	case month == time.November && d >= 24:
		return 1.85
	case month == time.December && d <= 23:
		return 1.55
	case (month == time.August && d >= 15) || month == time.September:
		return 1.25
	case (month == time.July) || (month == time.August && d < 15):
		return 0.82
	case month == time.January:
		return 0.78
	}
	return 1.0
}

func weekdayMultiplier(day time.Time) float64 {
	// time.Weekday starts on Sunday.
	return weekdayMultipliers[(int(day.Weekday())+6)%7]
}

// Products draws n SKUs from rng.
func Products(rng *rand.Rand, n int) []Product {
	out := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		mean := 2 + rng.Float64()*18
		reorderPoint := int(math.Round(mean * 7))
		out = append(out, Product{
			ID:           fmt.Sprintf("SKU-%03d", i+1),
			SalesMean:    math.Round(mean*10) / 10,
			StartStock:   reorderPoint*2 + rng.Intn(reorderPoint+1),
			ReorderPoint: reorderPoint,
			ReorderQty:   int(math.Round(mean * 21)),
		})
	}
	return out
}

// Generate simulates days of inventory for every product starting at start.
// Stock is topped up by ReorderQty each morning it opens below the reorder
// point; daily sales are gaussian around the seasonal mean.
func Generate(rng *rand.Rand, products []Product, start time.Time, days int) []Record {
	records := make([]Record, 0, len(products)*days)
	for _, p := range products {
		onHand := p.StartStock
		for d := 0; d < days; d++ {
			day := start.AddDate(0, 0, d)
			mu := p.SalesMean * seasonalMultiplier(day) * weekdayMultiplier(day)
			sigma := math.Max(1, mu*0.4)
			sold := int(math.Max(0, rng.NormFloat64()*sigma+mu))

			received := 0
			if onHand < p.ReorderPoint {
				received = p.ReorderQty
				onHand += received
			}
			onHand -= sold
			if onHand < 0 {
				onHand = 0
			}

			records = append(records, Record{
				ProductID:        p.ID,
				Date:             day.Format(dateLayout),
				QuantityOnHand:   onHand,
				QuantitySold:     sold,
				QuantityReceived: received,
			})
		}
	}
	return records
}

// internal/workers/recommendation/simulate-payment/simulator.go
package simulatepayment

import (
	"fmt"

	"purchase-advisor/internal/models"
)

// LedgerLine is one approved purchase to replay.
type LedgerLine struct {
	Description string
	Quantity    int
	UnitPrice   float64
}

func (l LedgerLine) Amount() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// Simulate replays lines against a starting balance. Step 0 records the
// starting balance and step i the balance after line i.
func Simulate(lines []LedgerLine, start float64) []models.LedgerEntry {
	ledger := make([]models.LedgerEntry, 0, len(lines)+1)
	ledger = append(ledger, models.LedgerEntry{
		Step:        0,
		Description: "starting balance",
		Balance:     start,
	})

	balance := start
	for i, line := range lines {
		amount := line.Amount()
		balance -= amount
		ledger = append(ledger, models.LedgerEntry{
			Step:        i + 1,
			Description: line.Description,
			Amount:      amount,
			Balance:     balance,
		})
	}
	return ledger
}

// linesFor lists selected items first, then the unfound items that were
// charged to the budget.
func linesFor(items []models.SelectedItem, unfound []models.UnfoundItem) ([]LedgerLine, error) {
	lines := make([]LedgerLine, 0, len(items)+len(unfound))
	for i, it := range items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, fmt.Errorf("items[%d]: quantity must be positive and price non-negative", i)
		}
		lines = append(lines, LedgerLine{
			Description: fmt.Sprintf("%d x %s", it.Quantity, it.Name),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	for _, u := range unfound {
		if !u.WithinBudget || u.UnitPrice == nil {
			continue
		}
		lines = append(lines, LedgerLine{
			Description: fmt.Sprintf("%d x %s", u.Quantity, u.Name),
			Quantity:    u.Quantity,
			UnitPrice:   *u.UnitPrice,
		})
	}
	return lines, nil
}

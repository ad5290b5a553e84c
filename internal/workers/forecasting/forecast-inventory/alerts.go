// internal/workers/forecasting/forecast-inventory/alerts.go
package forecastinventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Publisher is satisfied by the SNS client.
type Publisher interface {
	Publish(ctx context.Context, subject, message string, attributes map[string]string) (string, error)
}

type ReorderAlert struct {
	ProductID        string `json:"productId"`
	DaysUntilReorder int    `json:"daysUntilReorder"`
	ReorderPoint     int    `json:"reorderPoint"`
	ReorderQty       int    `json:"reorderQty"`
	CurrentLevel     int    `json:"currentLevel"`
}

func publishAlert(ctx context.Context, pub Publisher, alert ReorderAlert) (string, error) {
	body, err := json.Marshal(alert)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Reorder %s within %d days", alert.ProductID, alert.DaysUntilReorder)
	return pub.Publish(ctx, subject, string(body), map[string]string{
		"productId":        alert.ProductID,
		"daysUntilReorder": strconv.Itoa(alert.DaysUntilReorder),
	})
}

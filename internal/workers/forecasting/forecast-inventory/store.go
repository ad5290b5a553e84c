// internal/workers/forecasting/forecast-inventory/store.go
package forecastinventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"purchase-advisor/internal/models"
)

// InventorySource supplies per-product daily history and reorder settings.
type InventorySource interface {
	History(ctx context.Context, productID string, since time.Time) ([]models.TimeSeriesPoint, error)
	ReorderParams(ctx context.Context, productID string) (models.ReorderParams, error)
	ProductIDs(ctx context.Context) ([]string, error)
}

const (
	historyQuery = `SELECT day, quantity_on_hand, quantity_sold FROM inventory_daily WHERE product_id = $1 AND day >= $2 ORDER BY day`
	paramsQuery  = `SELECT reorder_point, reorder_qty FROM reorder_params WHERE product_id = $1`
	productQuery = `SELECT DISTINCT product_id FROM inventory_daily ORDER BY product_id`
)

type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) History(ctx context.Context, productID string, since time.Time) ([]models.TimeSeriesPoint, error) {
	rows, err := s.db.QueryContext(ctx, historyQuery, productID, since)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", productID, err)
	}
	defer rows.Close()

	var points []models.TimeSeriesPoint
	for rows.Next() {
		var p models.TimeSeriesPoint
		if err := rows.Scan(&p.Date, &p.QuantityOnHand, &p.QuantitySold); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ReorderParams returns zero values when the product has no row.
func (s *PostgresSource) ReorderParams(ctx context.Context, productID string) (models.ReorderParams, error) {
	params := models.ReorderParams{ProductID: productID}
	err := s.db.QueryRowContext(ctx, paramsQuery, productID).Scan(&params.ReorderPoint, &params.ReorderQty)
	if errors.Is(err, sql.ErrNoRows) {
		return params, nil
	}
	if err != nil {
		return params, fmt.Errorf("query reorder params for %s: %w", productID, err)
	}
	return params, nil
}

func (s *PostgresSource) ProductIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, productQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"purchase-advisor/internal/common/config"

	_ "github.com/lib/pq"
)

// InventorySchema creates the tables the forecasting workers read from.
const InventorySchema = `
CREATE TABLE IF NOT EXISTS inventory_daily (
	product_id       TEXT    NOT NULL,
	day              DATE    NOT NULL,
	quantity_on_hand INTEGER NOT NULL CHECK (quantity_on_hand >= 0),
	quantity_sold    INTEGER NOT NULL CHECK (quantity_sold >= 0),
	PRIMARY KEY (product_id, day)
);

CREATE TABLE IF NOT EXISTS reorder_params (
	product_id    TEXT PRIMARY KEY,
	reorder_point INTEGER NOT NULL,
	reorder_qty   INTEGER NOT NULL
);`

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureInventorySchema is idempotent.
func (c *PostgresClient) EnsureInventorySchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, InventorySchema); err != nil {
		return fmt.Errorf("failed to create inventory schema: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

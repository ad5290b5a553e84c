// cmd/tools/inventory-generator/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"purchase-advisor/internal/common/config"
	"purchase-advisor/internal/common/database"
	"purchase-advisor/internal/common/logger"
)

const (
	upsertDaily = `INSERT INTO inventory_daily (product_id, day, quantity_on_hand, quantity_sold)
VALUES ($1, $2, $3, $4)
ON CONFLICT (product_id, day) DO UPDATE SET quantity_on_hand = EXCLUDED.quantity_on_hand, quantity_sold = EXCLUDED.quantity_sold`
	upsertParams = `INSERT INTO reorder_params (product_id, reorder_point, reorder_qty)
VALUES ($1, $2, $3)
ON CONFLICT (product_id) DO UPDATE SET reorder_point = EXCLUDED.reorder_point, reorder_qty = EXCLUDED.reorder_qty`
)

func main() {
	products := flag.Int("products", 10, "Number of synthetic products")
	days := flag.Int("days", 365, "Days of history per product")
	seed := flag.Int64("seed", 42, "Random seed")
	end := flag.String("end", time.Now().Format(dateLayout), "Last generated day (YYYY-MM-DD)")
	output := flag.String("output", "json", "Output target: json or postgres")
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml)")
	flag.Parse()

	log := logger.NewZapAdapter(logger.New("info", "console"))

	endDay, err := time.Parse(dateLayout, *end)
	if err != nil || *days < 1 || *products < 1 {
		fmt.Fprintln(os.Stderr, "usage: inventory-generator -products N -days N -end YYYY-MM-DD -output json|postgres")
		os.Exit(2)
	}

	rng := rand.New(rand.NewSource(*seed))
	catalog := Products(rng, *products)
	records := Generate(rng, catalog, endDay.AddDate(0, 0, -(*days-1)), *days)

	switch *output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			log.Error("failed to write records", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	case "postgres":
		if err := seedPostgres(*configPath, catalog, records); err != nil {
			log.Error("failed to seed postgres", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
		log.Info("inventory seeded", map[string]interface{}{
			"products": len(catalog),
			"records":  len(records),
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown output %q\n", *output)
		os.Exit(2)
	}
}

func seedPostgres(configPath string, products []Product, records []Record) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	ctx := context.Background()
	if err := pg.EnsureInventorySchema(ctx); err != nil {
		return err
	}

	tx, err := pg.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range products {
		if _, err := tx.ExecContext(ctx, upsertParams, p.ID, p.ReorderPoint, p.ReorderQty); err != nil {
			return fmt.Errorf("reorder params for %s: %w", p.ID, err)
		}
	}
	for _, r := range records {
		if _, err := tx.ExecContext(ctx, upsertDaily, r.ProductID, r.Date, r.QuantityOnHand, r.QuantitySold); err != nil {
			return fmt.Errorf("inventory %s %s: %w", r.ProductID, r.Date, err)
		}
	}
	return tx.Commit()
}

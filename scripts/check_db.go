//go:build ignore

// check_db connects with the application configuration and reports which
// fedkart tables exist.
//
//	go run scripts/check_db.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fedkart/internal/config"
	"fedkart/internal/database"
)

var tables = []string{"clubs", "athletes", "events", "discounts", "orders", "order_lines", "registrations"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, config.NewLogger(cfg.Logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	missing := 0
	for _, table := range tables {
		var exists bool
		err := pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to check table %s: %v\n", table, err)
			os.Exit(1)
		}
		if !exists {
			missing++
		}
		fmt.Printf("  %-14s %v\n", table, exists)
	}

	if missing > 0 {
		fmt.Printf("\n%d table(s) missing, run with DB_AUTO_MIGRATE=true or discount-import -migrate\n", missing)
		os.Exit(1)
	}
}

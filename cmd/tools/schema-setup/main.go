// cmd/tools/schema-setup/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pharmelo-backend/internal/common/config"
	"pharmelo-backend/internal/common/database"
)

func main() {
	schemaPath := flag.String("schema", "migrations/schema.sql", "Path to schema file")
	timeout := flag.Duration("timeout", 30*time.Second, "Apply timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config load failed: %v\n", err)
		os.Exit(1)
	}

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", *schemaPath, err)
		os.Exit(1)
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: postgres connection failed: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: postgres unreachable: %v\n", err)
		os.Exit(1)
	}

	if _, err := pg.Exec(ctx, string(schema)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: schema apply failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Schema applied from %s to database %q\n", *schemaPath, cfg.Database.Postgres.Database)
}

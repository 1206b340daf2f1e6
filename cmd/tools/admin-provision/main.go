// cmd/tools/admin-provision/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pharmelo-backend/internal/common/auth"
	"pharmelo-backend/internal/common/config"
	"pharmelo-backend/internal/common/database"
)

// Admin accounts are created only through this tool: there is no signup
// endpoint on the API surface.
func main() {
	username := flag.String("username", "", "Admin username (required)")
	password := flag.String("password", "", "Admin password (required, or set ADMIN_PASSWORD)")
	timeout := flag.Duration("timeout", 15*time.Second, "Provision timeout")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: username and password are required.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config load failed: %v\n", err)
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

	svc := auth.NewService(pg.GetDB(), cfg.Auth.JWTSecret, config.GetDuration(cfg.Auth.TokenTTL), cfg.Auth.BcryptCost)

	id, err := svc.Provision(ctx, *username, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: provisioning failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin account %q provisioned (id %s)\n", *username, id)
}

// Package main runs the versioned SQL migrations against PostgreSQL.
//
// Usage:
//
//	migrate [up|down|version]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/infra/migration"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(cfg, command); err != nil {
		slog.Error("Migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, command string) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("versioned migrations require the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	mg, err := migration.New(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() { _ = mg.Close() }()

	switch command {
	case "up":
		return mg.Up()
	case "down":
		return mg.Down()
	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q (expected up, down or version)", command)
	}
}

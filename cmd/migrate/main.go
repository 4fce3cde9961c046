package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"crannies/db"
	"crannies/internal/config"
	"crannies/internal/logging"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command    = flag.String("command", "up", "Migration command: up, down, status, create")
		name       = flag.String("name", "", "Name for 'create' command")
		configPath = flag.String("config", os.Getenv(config.EnvConfigFile), "Config file (toml or yaml)")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *command == "create" {
		if err := create(cfg.Store.Driver, *name); err != nil {
			logger.Fatal("failed to create migration", zap.Error(err))
		}
		logger.Info("migration created", zap.String("name", *name))
		return
	}

	conn, release, err := openDB(context.Background(), cfg.Store)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer release()

	if err := run(conn, cfg.Store.Driver, *command, os.Stdout); err != nil {
		logger.Fatal("migration failed", zap.String("command", *command), zap.Error(err))
	}
}

// run applies command against the migrations embedded for driver.
func run(conn *sql.DB, driver, command string, out io.Writer) error {
	dialect, ok := db.Dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	goose.SetBaseFS(db.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	dir := db.MigrationsDir(driver)

	switch command {
	case "up":
		if err := goose.Up(conn, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		fmt.Fprintln(out, "Migrations applied successfully")
	case "down":
		if err := goose.Down(conn, dir); err != nil {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}
		fmt.Fprintln(out, "Migrations rolled back successfully")
	case "status":
		if err := goose.Status(conn, dir); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status, create", command)
	}
	return nil
}

func create(driver, name string) error {
	if name == "" {
		return errors.New("name is required for 'create' command")
	}
	goose.SetBaseFS(nil)
	return goose.Create(nil, migrationsDir(driver), name, "sql")
}

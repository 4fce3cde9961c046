// Package db holds the SQL migrations for the relational storage drivers.
package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var Migrations embed.FS

// Dialects maps a store driver name to its goose dialect.
var Dialects = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite3",
}

// MigrationsDir returns the embedded directory holding the driver's migrations.
func MigrationsDir(driver string) string {
	return "migrations/" + driver
}

// Up quietly applies every pending migration for driver.
func Up(conn *sql.DB, driver string) error {
	dialect, ok := Dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.Up(conn, MigrationsDir(driver))
}

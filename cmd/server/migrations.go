package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/phrazzld/notesy-api/internal/platform/postgres"
	"github.com/phrazzld/notesy-api/internal/redact"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

var migrationCommands = map[string]string{
	"up":      "Applying pending migrations",
	"down":    "Rolling back one migration version",
	"reset":   "Resetting all migrations (roll back to zero)",
	"status":  "Checking migration status",
	"version": "Retrieving current migration version",
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level and does NOT exit; the error is returned to main.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// configureGoose points goose at the embedded migrations.
func configureGoose() error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// runMigrations executes one goose command against db.
func runMigrations(ctx context.Context, db *sql.DB, command string, verbose bool) error {
	description, ok := migrationCommands[command]
	if !ok {
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status or version)",
			command,
		)
	}

	log := slog.Default().With(slog.String("component", "migrations"))

	if err := configureGoose(); err != nil {
		return err
	}
	if verbose {
		goose.SetVerbose(true)
	}

	log.Info(description, slog.String("command", command))
	start := time.Now()

	if err := goose.RunContext(ctx, command, db, postgres.MigrationsDir); err != nil {
		log.Error("migration command failed",
			slog.String("command", command),
			slog.Duration("duration", time.Since(start)),
			redact.Attr(err))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command completed",
		slog.String("command", command),
		slog.Duration("duration", time.Since(start)))
	return nil
}

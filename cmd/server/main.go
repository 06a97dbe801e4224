// Package main implements the notesy API server, which serves the ingestion
// gates, the /summarize contract, authentication and per-user persistence of
// todos and flashcard decks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/notesy-api/internal/config"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a database migration command (up, down, reset, status, version) and exit")
	verbose := flag.Bool("verbose", false, "log migration details")
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	db, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("database setup failed", redact.Attr(err))
		os.Exit(1)
	}

	if *migrateCmd != "" {
		err := runMigrations(ctx, db, *migrateCmd, *verbose)
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Warn("failed to close database", redact.Attr(closeErr))
		}
		if err != nil {
			appLogger.Error("migration failed",
				slog.String("command", *migrateCmd),
				redact.Attr(err))
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		appLogger.Error("failed to build application", redact.Attr(err))
		_ = db.Close()
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		appLogger.Error("server stopped with error", redact.Attr(err))
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up the default logger.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"summarizer", cfg.Summarizer.Backend)
	l.Debug("Database configuration", "host", extractHostFromURL(cfg.Database.URL))

	return cfg, l, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/notesy-api/internal/redact"
)

const shutdownTimeout = 10 * time.Second

// Run starts the HTTP server and blocks until it is shut down.
func (app *application) Run() error {
	handler := setupRouter(app.routerDeps())
	return app.startHTTPServer(handler)
}

// startHTTPServer serves handler until SIGINT or SIGTERM, then drains
// in-flight requests before cleaning up.
func (app *application) startHTTPServer(handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err, ok := <-serverErrors:
		app.cleanup()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	if err != nil {
		app.logger.Error("graceful shutdown failed", redact.Attr(err))
		_ = srv.Close()
	}

	app.cleanup()
	app.logger.Info("server stopped")
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

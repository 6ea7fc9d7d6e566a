// main is the entry point of the Employees API application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the SQLite slot storage
//  4. Load the employee collection (corrupt data degrades to empty)
//  5. Register all HTTP routes behind the session gate
//  6. Start the HTTP server in a separate goroutine
//  7. Block until an OS signal arrives, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/employees-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/employees-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/employees-api/internal/config"
	"github.com/aanand-mishra/employees-api/internal/employee"
	"github.com/aanand-mishra/employees-api/internal/http/server"
	"github.com/aanand-mishra/employees-api/internal/session"
	"github.com/aanand-mishra/employees-api/internal/storage/sqlite"
	"github.com/aanand-mishra/employees-api/internal/validation"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Set as the default too, so handlers logging through slog.Info share
	// the same format and level.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting employees-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	slots, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer slots.Close()

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Load the Record Store ──────────────────────────────────────────
	// A failed or corrupt load is a warning, not a reason to stop: the
	// directory starts empty and keeps working.
	directory := employee.New(slots,
		employee.WithKey(cfg.StorageKey),
		employee.WithLogger(log),
	)
	if err := directory.Initialize(); err != nil {
		log.Warn("starting with an empty directory",
			slog.String("error", err.Error()))
	}

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	gate := session.New(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.SessionTTL)
	router := server.NewRouter(directory, validation.New(), gate)

	srv := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		// Uploads carry up to 5 MB of image data, so reads get more room.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := srv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}

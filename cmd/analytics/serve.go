package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "github.com/just-nibble/repo-analytics/docs"
	"github.com/just-nibble/repo-analytics/internal/http/handlers"
	"github.com/just-nibble/repo-analytics/internal/routes"
	"github.com/just-nibble/repo-analytics/internal/seeder"
)

func serveCmd(envFile *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and the sync monitor",
		Long: `Start the HTTP API server and the sync monitor.

Environment variables:
  HTTP_ADDR              Listen address (default: :8080)
  LOG_LEVEL              trace, debug, info, warn, error (default: info)
  LOG_FORMAT             pretty or json (default: pretty)
  DB_URL                 sqlite:///path.db or postgres://... (default: sqlite:///analytics.db)
  DB_OPERATION_TIMEOUT   Deadline applied to each store operation (default: 30s)
  DB_RETRY_ATTEMPTS      Attempts for idempotent writes (default: 3)
  GITHUB_TOKEN           GitHub API token
  DEFAULT_REPOSITORY     owner/name tracked on an empty database
  DEFAULT_START_DATE     First sync cut-off, RFC3339
  MONITOR_INTERVAL       Re-sync interval (default: 1h)
  SYNC_TIMEOUT           Deadline for one background sync (default: 2h)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *envFile, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides HTTP_ADDR")

	return cmd
}

func runServe(ctx context.Context, envFile, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr == "" {
		addr = a.config.HTTPAddr
	}

	router := routes.NewRouter(routes.Handlers{
		Repository: handlers.NewRepositoryHandler(a.sync, a.query),
		Commit:     handlers.NewCommitHandler(a.query),
		Period:     handlers.NewPeriodHandler(a.aggregation, a.query),
		Stat:       handlers.NewStatHandler(a.snapshot, a.query),
		Ping:       a.db.Ping,
	})

	if err := seeder.SeedDatabase(ctx, a.repositories, a.sync, a.config); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		if err := a.sync.Monitor(ctx, a.config.MonitorInterval); err != nil {
			log.Error().Err(err).Msg("monitor exited")
		}
	}()

	// Syncs stop with ctx; the database closes only after they return.
	defer func() {
		stop()
		<-monitorDone
		a.sync.Wait()
	}()

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", version).Msg("server is running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/handler"
	"github.com/deppfellow/aurelia-api/internal/repository"
	"github.com/deppfellow/aurelia-api/internal/router"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/deppfellow/aurelia-api/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(load func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.loggerService.Shutdown()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	log := &a.log

	// Postgres needs its document table before the first request.
	if err := database.Migrate(ctx, log, a.cfg); err != nil && !errors.Is(err, database.ErrNotConfigured) {
		log.Error().Err(err).Msg("database migration failed")
	}

	srv := server.New(ctx, a.cfg, log, a.loggerService)

	repos := repository.NewRepositories(a.cfg, srv.DB)
	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)

	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	return run(ctx, srv)
}

// run serves until ctx is done or the listener fails, then releases every
// server resource either way.
func run(ctx context.Context, srv *server.Server) error {
	log := srv.Logger

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var startErr error
	select {
	case startErr = <-errCh:
		if startErr != nil {
			log.Error().Err(startErr).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(startErr, err)
	}
	if startErr != nil {
		return startErr
	}

	log.Info().Msg("server exited properly")
	return nil
}

// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - document store
//   - redis client
//   - background job worker server (asynq)
//   - prometheus metrics
//   - http.Server
//
// Every dependency except the configuration is optional: a missing or
// unreachable database, Redis or mail provider degrades the API instead
// of stopping it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/lib/job"
	"github.com/deppfellow/aurelia-api/internal/metrics"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/aurelia-api/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; the *http.Server is configured in
// SetupHTTPServer and started in Start.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// DB is the document store, nil when no database is configured.
	DB database.Store

	// Redis is nil when redis.address is empty.
	Redis *redis.Client

	// Job is nil when notifications are disabled.
	Job *job.JobService

	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New constructs a Server and initializes its optional dependencies.
//
// It does NOT start the HTTP server. That is done in SetupHTTPServer + Start.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *Server {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	s.DB = openStore(ctx, cfg, logger, loggerService)

	if cfg.Observability.Metrics.Enabled {
		s.Metrics = metrics.New()
	}

	if cfg.Redis.Address != "" {
		s.Redis = newRedisClient(ctx, cfg, logger, loggerService)
	}

	if cfg.NotificationsEnabled() {
		jobService := job.NewJobService(logger, cfg)
		if err := jobService.Start(); err != nil {
			logger.Error().Err(err).Msg("failed to start job server, inquiry notifications disabled")
			jobService.Stop()
		} else {
			s.Job = jobService
		}
	} else {
		logger.Info().Msg("inquiry notifications disabled: redis address, resend key or notify email not set")
	}

	return s
}

func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) database.Store {
	store, err := database.New(ctx, cfg, logger, loggerService)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		logger.Warn().
			Bool("database_url_set", cfg.HasDatabaseURL()).
			Bool("database_name_set", cfg.HasDatabaseName()).
			Msg("database not configured, running without persistence")
		return nil
	case err != nil:
		logger.Error().Err(err).Msg("failed to initialize database, running without persistence")
		return nil
	}
	return store
}

// newRedisClient creates the client lazily; a failed ping is only logged.
func newRedisClient(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without Redis")
	}

	return client
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, then releases the job
// server, the store and the Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	var errs []error

	if s.DB != nil {
		if err := s.DB.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	return errors.Join(errs...)
}

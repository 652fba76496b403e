package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/aurelia-api/internal/config"
	loggerPkg "github.com/deppfellow/aurelia-api/internal/logger"
	"github.com/google/uuid"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// PostgresStore keeps documents as JSONB rows in a single `documents` table,
// one row per document, keyed by collection.
type PostgresStore struct {
	Pool *pgxpool.Pool
	name string
	log  *zerolog.Logger
}

// multiTracer fans pgx query tracing out to several tracers, since pgx
// accepts only one (New Relic and the local SQL logger here).
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range mt.tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range mt.tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

// queryTracer picks the pgx tracer for the environment: New Relic when the
// agent runs, plus SQL logging in the local environment.
func queryTracer(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) pgx.QueryTracer {
	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerPkg.NewPgxLogger(globalLevel)),
			LogLevel: loggerPkg.GetPgxTraceLogLevel(globalLevel),
		})
	}

	switch len(tracers) {
	case 0:
		return nil
	case 1:
		return tracers[0]
	default:
		return &multiTracer{tracers: tracers}
	}
}

// NewPostgresStore creates a pgx pool for cfg.Database.URL. The pool
// connects lazily; run Migrate to create the documents table.
func NewPostgresStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if cfg.Database.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Database.MaxConns
	}
	poolConfig.ConnConfig.ConnectTimeout = time.Duration(cfg.Database.ConnectTimeout) * time.Second

	if tracer := queryTracer(cfg, logger, loggerService); tracer != nil {
		poolConfig.ConnConfig.Tracer = tracer
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	name := cfg.Database.Name
	if name == "" {
		name = poolConfig.ConnConfig.Database
	}

	return &PostgresStore{Pool: pool, name: name, log: logger}, nil
}

func (s *PostgresStore) Name() string {
	return s.name
}

func (s *PostgresStore) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO documents (id, collection, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)`,
		id, collection, map[string]any(stamp(doc, now)), now,
	)
	if err != nil {
		return "", fmt.Errorf("inserting into %s: %w", collection, err)
	}
	return id, nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, limit int64) ([]Document, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id::text, data
		FROM documents
		WHERE collection = $1
		ORDER BY created_at
		LIMIT $2`,
		collection, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Document, error) {
		var (
			id   string
			data map[string]any
		)
		if err := row.Scan(&id, &data); err != nil {
			return nil, err
		}
		doc := Document(data)
		if doc == nil {
			doc = Document{}
		}
		doc["_id"] = id
		return doc, nil
	})
}

func (s *PostgresStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close closes the pool. pgxpool.Close never fails.
func (s *PostgresStore) Close(ctx context.Context) error {
	s.log.Info().Msg("closing database connection pool")
	s.Pool.Close()
	return nil
}

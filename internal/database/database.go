// Package database provides the document store behind the API.
//
// A Store is a schema-less collection-of-documents database with exactly the
// operations the service needs: insert one document, fetch up to N documents,
// list collection names and ping. The backend is selected from the scheme of
// DATABASE_URL:
//
//   - mongodb://, mongodb+srv://   MongoDB (requires DATABASE_NAME)
//   - postgres://, postgresql://   a JSONB document table in PostgreSQL
//   - memory://                    an in-process store for tests and demos
//
// A missing or unusable configuration yields no store at all; callers treat
// a nil Store as "database unavailable" and degrade instead of failing.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/aurelia-api/internal/config"
	loggerPkg "github.com/deppfellow/aurelia-api/internal/logger"
	"github.com/rs/zerolog"
)

// Document is a single schema-less record.
type Document map[string]any

var (
	// ErrNotConfigured is returned when no store is wired.
	ErrNotConfigured = errors.New("database not available: check DATABASE_URL and DATABASE_NAME environment variables")

	// ErrUnsupportedScheme is returned for a DATABASE_URL with an unknown scheme.
	ErrUnsupportedScheme = errors.New("unsupported database url scheme")
)

// Store is the document store contract shared by every backend.
type Store interface {
	// Name is the database name, for diagnostics.
	Name() string

	// InsertOne stores doc in collection, stamping created_at and updated_at,
	// and returns the new document id.
	InsertOne(ctx context.Context, collection string, doc Document) (string, error)

	// Find returns up to limit documents of collection. The id is exposed as
	// the string field "_id".
	Find(ctx context.Context, collection string, limit int64) ([]Document, error)

	// ListCollectionNames returns the names of the non-empty collections.
	ListCollectionNames(ctx context.Context) ([]string, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMongo    Backend = "mongodb"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// BackendFor resolves the backend from a database URL.
func BackendFor(databaseURL string) (Backend, error) {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, databaseURL)
	}

	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// New opens the configured document store.
//
// It returns ErrNotConfigured when DATABASE_URL is unset (or a MongoDB URL
// comes without DATABASE_NAME). Drivers connect lazily, so an unreachable
// database still yields a Store; the failed startup ping is only logged.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (Store, error) {
	if !cfg.HasDatabaseURL() {
		return nil, ErrNotConfigured
	}

	backend, err := BackendFor(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	var store Store
	switch backend {
	case BackendMongo:
		if !cfg.HasDatabaseName() {
			return nil, ErrNotConfigured
		}
		store, err = NewMongoStore(ctx, cfg, logger)
	case BackendPostgres:
		store, err = NewPostgresStore(ctx, cfg, logger, loggerService)
	case BackendMemory:
		store = NewMemoryStore(cfg.Database.Name)
	}
	if err != nil {
		return nil, err
	}

	store = NewObservedStore(store, backend, cfg.Observability.Logging.SlowQueryThreshold, logger)

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Str("backend", string(backend)).Msg("database unreachable at startup, continuing")
	} else {
		logger.Info().Str("backend", string(backend)).Str("database", store.Name()).Msg("connected to the database")
	}

	return store, nil
}

// stamp returns a copy of doc with created_at and updated_at set to now.
func stamp(doc Document, now time.Time) Document {
	out := make(Document, len(doc)+2)
	for k, v := range doc {
		out[k] = v
	}
	out["created_at"] = now
	out["updated_at"] = now
	return out
}

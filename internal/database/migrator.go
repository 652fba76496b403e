package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate creates the Postgres documents table using jackc/tern.
// It is a no-op for the other backends, which need no schema.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	if !cfg.HasDatabaseURL() {
		return ErrNotConfigured
	}

	backend, err := BackendFor(cfg.Database.URL)
	if err != nil {
		return err
	}
	if backend != BackendPostgres {
		logger.Info().Str("backend", string(backend)).Msg("backend needs no migrations")
		return nil
	}

	connConfig, err := pgx.ParseConfig(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("parsing migration connection config: %w", err)
	}
	connConfig.ConnectTimeout = time.Duration(cfg.Database.ConnectTimeout) * time.Second

	// A single connection is enough for a one-off migration.
	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}
	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

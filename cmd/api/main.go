// Command api runs the Aurelia Interiors backend.
//
//	api            serve the HTTP API (same as "api serve")
//	api migrate    create the Postgres document table
//	api seed       insert the curated projects into an empty store
package main

import (
	"os"

	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/deppfellow/aurelia-api/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every command needs.
type app struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "api",
		Short:         "Aurelia Interiors API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (overrides "+config.ConfigFileEnv+")")

	load := func() (*app, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}

		loggerService := logger.NewLoggerService(cfg.Observability)
		return &app{
			cfg:           cfg,
			log:           logger.NewLoggerWithService(cfg.Observability, loggerService),
			loggerService: loggerService,
		}, nil
	}

	serve := newServeCmd(load)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(load), newSeedCmd(load))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log := zerolog.New(os.Stderr).With().Timestamp().Logger()
		log.Fatal().Err(err).Msg("command failed")
	}
}

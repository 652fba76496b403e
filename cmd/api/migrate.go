package main

import (
	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(load func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the document table on a Postgres DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			return database.Migrate(cmd.Context(), &a.log, a.cfg)
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/lib/utils"
	"github.com/deppfellow/aurelia-api/internal/model"
	"github.com/deppfellow/aurelia-api/internal/repository"
	"github.com/spf13/cobra"
)

func newSeedCmd(load func() (*app, error)) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the curated projects when the project collection is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := model.FallbackProjects()
			if dryRun {
				return utils.PrintJSON(cmd.OutOrStdout(), projects)
			}

			a, err := load()
			if err != nil {
				return err
			}

			store, err := database.New(cmd.Context(), a.cfg, &a.log, a.loggerService)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			repo := repository.NewRepositories(a.cfg, store).Project
			ids, err := seedProjects(cmd.Context(), repo, projects)
			if err != nil {
				return err
			}

			if len(ids) == 0 {
				a.log.Info().Msg("projects already present, nothing seeded")
				return nil
			}
			a.log.Info().Strs("ids", ids).Msg("seeded projects")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the projects instead of inserting them")

	return cmd
}

// seedProjects inserts projects only when the collection has no documents.
func seedProjects(ctx context.Context, repo *repository.ProjectRepository, projects []model.Project) ([]string, error) {
	has, err := repo.HasCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking projects: %w", err)
	}
	if has {
		return nil, nil
	}

	ids, err := repo.Seed(ctx, projects)
	if err != nil {
		return ids, fmt.Errorf("seeding projects: %w", err)
	}
	return ids, nil
}

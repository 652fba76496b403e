package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/metrics"
	"github.com/deppfellow/aurelia-api/internal/model"
	"github.com/deppfellow/aurelia-api/internal/repository"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/rs/zerolog"
)

// ProjectListLimit caps how many stored projects are returned.
const ProjectListLimit = 12

type ProjectService struct {
	repo    *repository.ProjectRepository
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

func NewProjectService(s *server.Server, repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		repo:    repo,
		metrics: s.Metrics,
		logger:  s.Logger,
	}
}

// List returns up to ProjectListLimit stored projects, or the fallback set
// when the store is missing, the collection does not exist, anything fails,
// or nothing maps. It never returns an empty list.
func (s *ProjectService) List(ctx context.Context) (projects []model.Project) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("recovered while listing projects")
			projects = s.fallback(metrics.FallbackUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	has, err := s.repo.HasCollection(ctx)
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			return s.fallback(metrics.FallbackNoDatabase, nil)
		}
		return s.fallback(metrics.FallbackStoreError, err)
	}
	if !has {
		return s.fallback(metrics.FallbackNoCollection, nil)
	}

	docs, err := s.repo.List(ctx, ProjectListLimit)
	if err != nil {
		return s.fallback(metrics.FallbackStoreError, err)
	}

	results := make([]model.Project, 0, len(docs))
	for _, doc := range docs {
		project, err := model.ProjectFromDocument(doc)
		if err != nil {
			return s.fallback(metrics.FallbackMappingError, err)
		}
		results = append(results, *project)
	}
	if len(results) == 0 {
		return s.fallback(metrics.FallbackEmpty, nil)
	}

	s.metrics.ProjectsFromDatabase()
	return results
}

func (s *ProjectService) fallback(reason string, err error) []model.Project {
	s.metrics.ProjectsFallback(reason)

	event := s.logger.Debug()
	if err != nil {
		event = s.logger.Warn().Err(err)
	}
	event.Str("reason", reason).Msg("serving fallback projects")

	return model.FallbackProjects()
}

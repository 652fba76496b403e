package repository

import (
	"context"
	"slices"

	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/model"
)

// ProjectRepository reads (and seeds) portfolio projects.
type ProjectRepository struct {
	store      database.Store
	collection string
}

func NewProjectRepository(store database.Store, collection string) *ProjectRepository {
	return &ProjectRepository{store: store, collection: collection}
}

// HasCollection reports whether the projects collection exists in the store.
func (r *ProjectRepository) HasCollection(ctx context.Context) (bool, error) {
	if r.store == nil {
		return false, database.ErrNotConfigured
	}

	names, err := r.store.ListCollectionNames(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, r.collection), nil
}

// List returns up to limit raw project documents.
func (r *ProjectRepository) List(ctx context.Context, limit int64) ([]database.Document, error) {
	if r.store == nil {
		return nil, database.ErrNotConfigured
	}
	return r.store.Find(ctx, r.collection, limit)
}

// Seed inserts projects and returns their ids.
func (r *ProjectRepository) Seed(ctx context.Context, projects []model.Project) ([]string, error) {
	if r.store == nil {
		return nil, database.ErrNotConfigured
	}

	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		id, err := r.store.InsertOne(ctx, r.collection, database.Document(p.Fields()))
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

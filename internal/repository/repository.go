// Package repository handles all interactions with the document store.
//
// Repositories translate typed model records to and from schema-less
// documents, hiding collection names and the store itself from services.
package repository

import (
	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/deppfellow/aurelia-api/internal/database"
)

// Repositories groups every repository instance.
type Repositories struct {
	Inquiry *InquiryRepository
	Project *ProjectRepository
}

// NewRepositories builds the repositories over store. store may be nil when
// no database is configured; repositories then report database.ErrNotConfigured.
func NewRepositories(cfg *config.Config, store database.Store) *Repositories {
	return &Repositories{
		Inquiry: NewInquiryRepository(store, cfg.Database.InquiryCollection),
		Project: NewProjectRepository(store, cfg.Database.ProjectsCollection),
	}
}

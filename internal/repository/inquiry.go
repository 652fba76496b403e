package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/model"
)

// InquiryRepository persists contact-form submissions.
type InquiryRepository struct {
	store      database.Store
	collection string
}

func NewInquiryRepository(store database.Store, collection string) *InquiryRepository {
	return &InquiryRepository{store: store, collection: collection}
}

// Create inserts the inquiry and returns its id.
func (r *InquiryRepository) Create(ctx context.Context, inquiry *model.Inquiry) (string, error) {
	if r.store == nil {
		return "", database.ErrNotConfigured
	}

	id, err := r.store.InsertOne(ctx, r.collection, database.Document(inquiry.Fields()))
	if err != nil {
		return "", fmt.Errorf("creating inquiry: %w", err)
	}
	return id, nil
}

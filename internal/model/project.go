package model

import (
	"errors"
	"fmt"
)

const (
	// DefaultProjectTitle replaces a stored project's missing title.
	DefaultProjectTitle = "Untitled"
	// DefaultProjectCategory replaces a stored project's missing category.
	DefaultProjectCategory = "Uncategorized"
)

// ErrInvalidProjectField is returned when a stored document carries a
// project field of the wrong type.
var ErrInvalidProjectField = errors.New("invalid project field")

// Project is a portfolio entry. Optional fields serialize as null.
type Project struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Location    *string `json:"location"`
	CoverURL    *string `json:"cover_url"`
	Description *string `json:"description"`
}

// ProjectFromDocument maps a stored document onto a Project.
//
// A missing title or category falls back to DefaultProjectTitle and
// DefaultProjectCategory; missing optional fields stay nil. A field that is
// present with a non-string value, or a null title/category, is an error.
// Empty strings are kept as stored.
func ProjectFromDocument(doc map[string]any) (*Project, error) {
	title, err := requiredString(doc, "title", DefaultProjectTitle)
	if err != nil {
		return nil, err
	}
	category, err := requiredString(doc, "category", DefaultProjectCategory)
	if err != nil {
		return nil, err
	}

	var optional [3]*string
	for i, key := range []string{"location", "cover_url", "description"} {
		if optional[i], err = optionalString(doc, key); err != nil {
			return nil, err
		}
	}

	return &Project{
		Title:       title,
		Category:    category,
		Location:    optional[0],
		CoverURL:    optional[1],
		Description: optional[2],
	}, nil
}

// Fields returns the project as a schema-less document body.
func (p *Project) Fields() map[string]any {
	fields := map[string]any{
		"title":    p.Title,
		"category": p.Category,
	}
	if p.Location != nil {
		fields["location"] = *p.Location
	}
	if p.CoverURL != nil {
		fields["cover_url"] = *p.CoverURL
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	return fields
}

func requiredString(doc map[string]any, key, fallback string) (string, error) {
	raw, ok := doc[key]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrInvalidProjectField, key, raw)
	}
	return s, nil
}

func optionalString(doc map[string]any, key string) (*string, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrInvalidProjectField, key, raw)
	}
	return &s, nil
}

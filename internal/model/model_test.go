package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInquiry(t *testing.T) {
	validMessage := "We would love a quote for our loft."

	tests := []struct {
		name     string
		inName   string
		email    string
		message  string
		wantErr  bool
		errField string
	}{
		{"valid", "Ada", "ada@example.com", validMessage, false, ""},
		{"name at minimum", "Al", "al@example.com", validMessage, false, ""},
		{"name too short", "A", "a@example.com", validMessage, true, "Name"},
		{"name too long", strings.Repeat("n", 81), "n@example.com", validMessage, true, "Name"},
		{"name counts runes", strings.Repeat("é", 80), "e@example.com", validMessage, false, ""},
		{"invalid email", "Ada", "not-an-email", validMessage, true, "Email"},
		{"message too short", "Ada", "ada@example.com", "too short", true, "Message"},
		{"message at minimum", "Ada", "ada@example.com", "0123456789", false, ""},
		{"message too long", "Ada", "ada@example.com", strings.Repeat("m", 2001), true, "Message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inquiry, err := NewInquiry(tt.inName, tt.email, tt.message, "")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, DefaultInquirySource, inquiry.Source)
				return
			}

			require.Error(t, err)
			assert.Nil(t, inquiry)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.errField, verrs[0].Field())
		})
	}
}

func TestNewInquiryKeepsSource(t *testing.T) {
	inquiry, err := NewInquiry("Ada", "ada@example.com", "Please call me back soon.", "instagram")
	require.NoError(t, err)
	assert.Equal(t, "instagram", inquiry.Source)

	fields := inquiry.Fields()
	assert.Equal(t, "instagram", fields["source"])
	assert.Equal(t, "Ada", fields["name"])
	assert.Len(t, fields, 4)
}

func TestProjectFromDocument(t *testing.T) {
	t.Run("defaults for missing fields", func(t *testing.T) {
		project, err := ProjectFromDocument(map[string]any{"_id": "abc"})
		require.NoError(t, err)
		assert.Equal(t, DefaultProjectTitle, project.Title)
		assert.Equal(t, DefaultProjectCategory, project.Category)
		assert.Nil(t, project.Location)
		assert.Nil(t, project.CoverURL)
		assert.Nil(t, project.Description)
	})

	t.Run("all fields", func(t *testing.T) {
		project, err := ProjectFromDocument(map[string]any{
			"title":       "Harbor House",
			"category":    "Residential",
			"location":    "Lisbon",
			"cover_url":   "https://example.com/harbor.jpg",
			"description": "A calm waterfront home.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Harbor House", project.Title)
		require.NotNil(t, project.Location)
		assert.Equal(t, "Lisbon", *project.Location)
		assert.Equal(t, "https://example.com/harbor.jpg", *project.CoverURL)
	})

	t.Run("null optional field", func(t *testing.T) {
		project, err := ProjectFromDocument(map[string]any{"title": "T", "category": "C", "location": nil})
		require.NoError(t, err)
		assert.Nil(t, project.Location)
	})

	t.Run("null title", func(t *testing.T) {
		_, err := ProjectFromDocument(map[string]any{"title": nil})
		assert.ErrorIs(t, err, ErrInvalidProjectField)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := ProjectFromDocument(map[string]any{"title": "T", "category": 42})
		assert.ErrorIs(t, err, ErrInvalidProjectField)

		_, err = ProjectFromDocument(map[string]any{"title": "T", "category": "C", "cover_url": true})
		assert.ErrorIs(t, err, ErrInvalidProjectField)
	})

	t.Run("empty strings are kept", func(t *testing.T) {
		project, err := ProjectFromDocument(map[string]any{"title": "", "category": "", "location": ""})
		require.NoError(t, err)
		assert.Equal(t, "", project.Title)
		assert.Equal(t, "", project.Category)
		require.NotNil(t, project.Location)
		assert.Equal(t, "", *project.Location)
	})
}

func TestProjectFieldsRoundTrip(t *testing.T) {
	for _, fallback := range FallbackProjects() {
		project, err := ProjectFromDocument(fallback.Fields())
		require.NoError(t, err)
		assert.Equal(t, fallback, *project)
	}
}

func TestFallbackProjects(t *testing.T) {
	projects := FallbackProjects()
	require.Len(t, projects, 3)

	assert.Equal(t, "Skyline Residence", projects[0].Title)
	assert.Equal(t, "Residential", projects[0].Category)
	assert.Equal(t, "Atrium Workspace", projects[1].Title)
	assert.Equal(t, "Commercial", projects[1].Category)
	assert.Equal(t, "Minimal Loft", projects[2].Title)
	assert.Equal(t, "Residential", projects[2].Category)

	for _, p := range projects {
		require.NotNil(t, p.CoverURL)
		assert.True(t, strings.HasPrefix(*p.CoverURL, "https://images.unsplash.com/"))
		assert.Nil(t, p.Location)
		assert.Nil(t, p.Description)
	}

	// Callers may mutate their copy.
	projects[0].Title = "changed"
	assert.Equal(t, "Skyline Residence", FallbackProjects()[0].Title)
}

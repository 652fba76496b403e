package model

// FallbackProjects returns the curated portfolio shown when no stored
// projects are available. Each call returns a fresh slice.
func FallbackProjects() []Project {
	cover := func(s string) *string { return &s }

	return []Project{
		{
			Title:    "Skyline Residence",
			Category: "Residential",
			CoverURL: cover("https://images.unsplash.com/photo-1524758631624-e2822e304c36?q=80&w=1600&auto=format&fit=crop"),
		},
		{
			Title:    "Atrium Workspace",
			Category: "Commercial",
			CoverURL: cover("https://images.unsplash.com/photo-1484154218962-a197022b5858?q=80&w=1600&auto=format&fit=crop"),
		},
		{
			Title:    "Minimal Loft",
			Category: "Residential",
			CoverURL: cover("https://images.unsplash.com/photo-1549187774-b4e9b0445b41?q=80&w=1600&auto=format&fit=crop"),
		},
	}
}

package projects

import (
	"net/url"

	"github.com/JaimeStill/foundry/pkg/query"
	"github.com/JaimeStill/foundry/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("slug", "Slug").
	Project("description", "Description").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for project queries.
// Nil fields are ignored. Name and Slug use case-insensitive contains matching.
type Filters struct {
	Name *string `json:"name,omitempty"`
	Slug *string `json:"slug,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereContains("Slug", f.Slug)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if s := values.Get("slug"); s != "" {
		f.Slug = &s
	}

	return f
}

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.ProjectID,
		&f.Filename,
		&f.ContentType,
		&f.Size,
		&f.CreatedAt,
	)
	return f, err
}

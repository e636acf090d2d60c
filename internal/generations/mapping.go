package generations

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/internal/workflow"
	"github.com/JaimeStill/foundry/pkg/query"
	"github.com/JaimeStill/foundry/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "generations", "g").
	Project("id", "ID").
	Project("prompt", "Prompt").
	Project("name", "Name").
	Project("status", "Status").
	Project("options", "Options").
	Project("spec", "Spec").
	Project("files", "Files").
	Project("deployment", "Deployment").
	Project("error", "Error").
	Project("project_id", "ProjectID").
	Project("provider", "Provider").
	Project("model", "Model").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for generation queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status    *Status    `json:"status,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("ProjectID", f.ProjectID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Invalid values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}

	if p := values.Get("project_id"); p != "" {
		if id, err := uuid.Parse(p); err == nil {
			f.ProjectID = &id
		}
	}

	return f
}

func scanGeneration(s repository.Scanner) (Generation, error) {
	var g Generation
	var optionsRaw, specRaw, filesRaw []byte

	err := s.Scan(
		&g.ID,
		&g.Prompt,
		&g.Name,
		&g.Status,
		&optionsRaw,
		&specRaw,
		&filesRaw,
		&g.Deployment,
		&g.Error,
		&g.ProjectID,
		&g.Provider,
		&g.Model,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if err != nil {
		return g, err
	}

	if len(optionsRaw) > 0 {
		if err := json.Unmarshal(optionsRaw, &g.Options); err != nil {
			return g, fmt.Errorf("unmarshal options: %w", err)
		}
	}

	if len(specRaw) > 0 {
		var spec workflow.AppSpec
		if err := json.Unmarshal(specRaw, &spec); err != nil {
			return g, fmt.Errorf("unmarshal spec: %w", err)
		}
		g.Spec = &spec
	}

	if len(filesRaw) > 0 {
		if err := json.Unmarshal(filesRaw, &g.Files); err != nil {
			return g, fmt.Errorf("unmarshal files: %w", err)
		}
	}

	return g, nil
}

package knowledge

import (
	"net/url"

	"github.com/JaimeStill/foundry/pkg/query"
	"github.com/JaimeStill/foundry/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "knowledge_documents", "k").
	Project("id", "ID").
	Project("content", "Content").
	Project("doc_type", "DocType").
	Project("added_at", "AddedAt")

var defaultSort = query.SortField{
	Field:      "AddedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for knowledge queries.
// Nil fields are ignored. DocType uses exact matching.
type Filters struct {
	DocType *DocType `json:"doc_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("DocType", f.DocType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("doc_type"); t != "" {
		docType := DocType(t)
		f.DocType = &docType
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Content,
		&d.DocType,
		&d.AddedAt,
	)
	return d, err
}

func scanSearchResult(s repository.Scanner) (SearchResult, error) {
	var r SearchResult
	err := s.Scan(
		&r.ID,
		&r.Content,
		&r.DocType,
		&r.AddedAt,
		&r.Similarity,
	)
	return r, err
}

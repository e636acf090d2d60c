// Package knowledge implements the knowledge base domain for Foundry.
// It provides types, embedding, data access, and HTTP handlers for the
// reference content used to ground code generation.
package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// DocType categorizes knowledge base content.
type DocType string

// Valid knowledge document types.
const (
	TypeCodeSnippet   DocType = "code_snippet"
	TypeDocumentation DocType = "documentation"
	TypeExample       DocType = "example"
	TypeBestPractice  DocType = "best_practice"
)

var docTypes = []DocType{
	TypeCodeSnippet,
	TypeDocumentation,
	TypeExample,
	TypeBestPractice,
}

// Types returns the list of valid knowledge document types.
func Types() []DocType {
	return docTypes
}

// UnmarshalJSON validates that the decoded string is a known document type.
func (t *DocType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := DocType(raw)
	if !slices.Contains(docTypes, v) {
		return ErrInvalidType
	}
	*t = v
	return nil
}

// Document represents a stored knowledge base entry. The ID is the hex
// SHA-256 of the cleaned content, making inserts idempotent by content.
type Document struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	DocType DocType   `json:"doc_type"`
	AddedAt time.Time `json:"added_at"`
}

// AddCommand carries the data needed to add a knowledge document.
type AddCommand struct {
	Content string  `json:"content"`
	DocType DocType `json:"doc_type"`
}

// Normalize fills unset fields with their defaults.
func (c *AddCommand) Normalize() {
	if c.DocType == "" {
		c.DocType = TypeDocumentation
	}
}

// SearchResult pairs a document with its cosine similarity to the query.
type SearchResult struct {
	Document
	Similarity float64 `json:"similarity"`
}

// CleanContent replaces NUL bytes with the Unicode replacement character
// so content is safe for Postgres text columns.
func CleanContent(content string) string {
	return strings.ReplaceAll(content, "\x00", "�")
}

// HashContent returns the hex SHA-256 of cleaned content, used as the
// document ID.
func HashContent(cleaned string) string {
	sum := sha256.Sum256([]byte(cleaned))
	return hex.EncodeToString(sum[:])
}

// Package projects implements the app library domain for Foundry.
// It provides types, data access, and blob storage integration for
// generated applications and their file sets.
package projects

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project represents a generated application in the library.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Files       []File    `json:"files,omitempty"`
}

// File represents a single stored file within a project. Content lives in
// blob storage under projects/<project_id>/<filename>.
type File struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveCommand carries the data needed to save a project. Saving an existing
// name updates the project and replaces its file set.
type SaveCommand struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Files       map[string]string `json:"files"`
}

// ArchiveResult holds a zip archive of a project's files.
type ArchiveResult struct {
	Filename string
	Data     []byte
}

// SanitizeSlug lowercases a project name and collapses every run of
// characters outside [a-z0-9-_] into a single hyphen. Returns "" when
// nothing survives, which callers must reject.
func SanitizeSlug(name string) string {
	var sb strings.Builder
	lastHyphen := false

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(sb.String(), "-")
}

// ValidateFilename rejects names that are empty, contain path separators,
// or traverse directories.
func ValidateFilename(name string) error {
	if name == "" {
		return ErrInvalidFilename
	}
	if strings.ContainsAny(name, "/\\") {
		return ErrInvalidFilename
	}
	if strings.Contains(name, "..") {
		return ErrInvalidFilename
	}
	return nil
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".py"):
		return "text/x-python"
	case strings.HasSuffix(filename, ".md"):
		return "text/markdown"
	case strings.HasSuffix(filename, ".json"):
		return "application/json"
	case strings.HasSuffix(filename, ".yaml"), strings.HasSuffix(filename, ".yml"):
		return "application/yaml"
	case strings.HasSuffix(filename, ".toml"):
		return "application/toml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Package prompts implements the prompt override domain for Foundry.
// It provides types, data access, and HTTP handlers for managing
// named prompt overrides per generation workflow stage.
package prompts

import "github.com/google/uuid"

// Prompt represents a named override for a workflow stage. Instructions
// replace the stage's default instructions; Spec, when set, replaces the
// stage's default output specification.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Spec         *string   `json:"spec"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// CreateCommand carries the data needed to create a new prompt override.
type CreateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Spec         *string `json:"spec"`
	Description  *string `json:"description"`
}

// UpdateCommand carries the data needed to update an existing prompt override.
type UpdateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Spec         *string `json:"spec"`
	Description  *string `json:"description"`
}

// Package generations implements the generation domain for Foundry.
// It provides types, data access, and business logic for accepting free-text
// application requirements, dispatching them through the generation workflow,
// and storing the produced specification, files, and deployment instructions.
package generations

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/internal/workflow"
)

// TaskKind identifies generation run tasks on the dispatch queue.
const TaskKind = "generation.run"

// Status represents a generation's position in its lifecycle.
type Status string

// Generation lifecycle statuses. Transitions are pending → running →
// review → complete, with failed reachable from pending and running.
const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusReview   Status = "review"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

var statuses = []Status{
	StatusPending,
	StatusRunning,
	StatusReview,
	StatusComplete,
	StatusFailed,
}

// Statuses returns all valid generation statuses.
func Statuses() []Status {
	return slices.Clone(statuses)
}

// UnmarshalJSON validates that the decoded value is a recognized status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed := Status(raw)
	if !slices.Contains(statuses, parsed) {
		return ErrInvalidStatus
	}

	*s = parsed
	return nil
}

// ParseStatus converts a string into a validated Status.
func ParseStatus(s string) (Status, error) {
	parsed := Status(s)
	if !slices.Contains(statuses, parsed) {
		return "", ErrInvalidStatus
	}
	return parsed, nil
}

// Generation represents a stored generation request and its workflow output.
// Spec, Files, and Deployment are populated when the run reaches review.
// ProjectID links the app library entry created on acceptance.
type Generation struct {
	ID         uuid.UUID         `json:"id"`
	Prompt     string            `json:"prompt"`
	Name       string            `json:"name"`
	Status     Status            `json:"status"`
	Options    workflow.Options  `json:"options"`
	Spec       *workflow.AppSpec `json:"spec,omitempty"`
	Files      map[string]string `json:"files,omitempty"`
	Deployment *string           `json:"deployment,omitempty"`
	Error      *string           `json:"error,omitempty"`
	ProjectID  *uuid.UUID        `json:"project_id,omitempty"`
	Provider   string            `json:"provider"`
	Model      string            `json:"model"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// CreateCommand carries the data needed to request a generation.
type CreateCommand struct {
	Prompt  string           `json:"prompt"`
	Options workflow.Options `json:"options"`
}

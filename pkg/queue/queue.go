// Package queue provides task dispatch with memory, Redis, and RabbitMQ backends.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/pkg/lifecycle"
)

// Task is a unit of dispatched work. ID references the entity the task
// operates on; Kind routes it to the matching handler.
type Task struct {
	ID   uuid.UUID `json:"id"`
	Kind string    `json:"kind"`
}

// Handler processes a consumed task. A non-nil error signals the backend
// to requeue the task where the backend supports it.
type Handler func(ctx context.Context, task Task) error

// System manages task publication and consumption with lifecycle coordination.
type System interface {
	// Start registers a shutdown hook that closes the backend connection.
	Start(lc *lifecycle.Coordinator) error
	// Publish enqueues a task for asynchronous processing.
	Publish(ctx context.Context, task Task) error
	// Consume runs workers consuming tasks until the context is cancelled.
	// It blocks for the lifetime of the consumer pool.
	Consume(ctx context.Context, workers int, handler Handler) error
	// Close releases backend resources. Publish returns ErrClosed afterward.
	Close() error
}

// New creates a queue system for the configured backend kind.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "queue")

	switch cfg.Kind {
	case KindMemory:
		return newMemory(cfg, logger), nil
	case KindRedis:
		return newRedis(cfg, logger)
	case KindRabbitMQ:
		return newRabbitMQ(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, cfg.Kind)
	}
}

func normalizeWorkers(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}

package api

import (
	"context"
	"errors"

	"github.com/JaimeStill/foundry/internal/generations"
	"github.com/JaimeStill/foundry/pkg/queue"
)

// startConsumer runs the queue worker pool for the life of the application,
// dispatching generation tasks to the generations system.
func startConsumer(runtime *Runtime, domain *Domain, workers int) {
	logger := runtime.Logger.With("worker", "generations")

	runtime.Lifecycle.Go(func(ctx context.Context) {
		err := runtime.Queue.Consume(ctx, workers, func(ctx context.Context, task queue.Task) error {
			if task.Kind != generations.TaskKind {
				logger.WarnContext(ctx, "unrecognized task kind", "kind", task.Kind, "task", task.ID)
				return nil
			}
			return domain.Generations.Run(ctx, task.ID)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("queue consumer stopped", "error", err)
		}
	})
}

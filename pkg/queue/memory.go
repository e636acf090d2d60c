package queue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JaimeStill/foundry/pkg/lifecycle"
)

// memory is a channel-backed queue. Tasks do not survive process restart;
// it serves single-node deployments and tests.
type memory struct {
	ch     chan Task
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

func newMemory(cfg *Config, logger *slog.Logger) *memory {
	return &memory{
		ch:     make(chan Task, cfg.BufferSize),
		logger: logger.With("backend", KindMemory),
	}
}

func (q *memory) Start(lc *lifecycle.Coordinator) error {
	q.logger.Info("starting queue", "backend", KindMemory)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := q.Close(); err != nil {
			q.logger.Error("queue close failed", "error", err)
		}
	})

	return nil
}

func (q *memory) Publish(ctx context.Context, task Task) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()

	if closed {
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.ch <- task:
		return nil
	}
}

func (q *memory) Consume(ctx context.Context, workers int, handler Handler) error {
	var wg sync.WaitGroup

	for range normalizeWorkers(workers) {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-q.ch:
					if !ok {
						return
					}
					if err := handler(ctx, task); err != nil {
						q.logger.Error(
							"task handler failed",
							"task", task.ID,
							"kind", task.Kind,
							"error", err,
						)
					}
				}
			}
		})
	}

	wg.Wait()
	return ctx.Err()
}

func (q *memory) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		close(q.ch)
		q.closed = true
	}

	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/foundry/pkg/lifecycle"
)

// redisQueue dispatches tasks through a Redis list. Publish pushes to the
// head; consumers block-pop from the tail. Failed tasks are pushed back to
// the tail for retry.
type redisQueue struct {
	client *redis.Client
	name   string
	wait   time.Duration
	logger *slog.Logger
}

func newRedis(cfg *Config, logger *slog.Logger) (*redisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisQueue{
		client: client,
		name:   cfg.Name,
		wait:   cfg.BlockWaitDuration(),
		logger: logger.With("backend", KindRedis),
	}, nil
}

func (q *redisQueue) Start(lc *lifecycle.Coordinator) error {
	q.logger.Info("starting queue", "backend", KindRedis)

	lc.OnStartup(func() {
		if err := q.client.Ping(lc.Context()).Err(); err != nil {
			q.logger.Error("redis ping failed", "error", err)
			return
		}
		q.logger.Info("queue ready", "name", q.name)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := q.Close(); err != nil {
			q.logger.Error("queue close failed", "error", err)
		}
	})

	return nil
}

func (q *redisQueue) Publish(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	if err := q.client.LPush(ctx, q.name, payload).Err(); err != nil {
		return fmt.Errorf("publish task: %w", err)
	}

	return nil
}

func (q *redisQueue) Consume(ctx context.Context, workers int, handler Handler) error {
	errCh := make(chan error, normalizeWorkers(workers))

	for range normalizeWorkers(workers) {
		go func() {
			for {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				default:
				}

				values, err := q.client.BRPop(ctx, q.wait, q.name).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, redis.ErrClosed) {
						errCh <- err
						return
					}
					if errors.Is(err, redis.Nil) {
						continue
					}
					errCh <- fmt.Errorf("pop task: %w", err)
					return
				}

				if len(values) != 2 {
					continue
				}

				var task Task
				if err := json.Unmarshal([]byte(values[1]), &task); err != nil {
					q.logger.Error("invalid task payload", "error", err)
					continue
				}

				if err := handler(ctx, task); err != nil {
					q.logger.Error(
						"task handler failed, requeueing",
						"task", task.ID,
						"kind", task.Kind,
						"error", err,
					)
					if pushErr := q.client.RPush(ctx, q.name, values[1]).Err(); pushErr != nil {
						q.logger.Error("requeue failed", "task", task.ID, "error", pushErr)
					}
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (q *redisQueue) Close() error {
	return q.client.Close()
}

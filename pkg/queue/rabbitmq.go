package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/JaimeStill/foundry/pkg/lifecycle"
)

// rabbitQueue dispatches tasks through a durable RabbitMQ queue with
// manual acknowledgement. Failed tasks are nacked back for redelivery.
type rabbitQueue struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	name   string
	logger *slog.Logger
}

func newRabbitMQ(cfg *Config, logger *slog.Logger) (*rabbitQueue, error) {
	conn, err := amqp.Dial(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if cfg.Prefetch > 0 {
		if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("set qos: %w", err)
		}
	}

	if _, err := ch.QueueDeclare(cfg.Name, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &rabbitQueue{
		conn:   conn,
		ch:     ch,
		name:   cfg.Name,
		logger: logger.With("backend", KindRabbitMQ),
	}, nil
}

func (q *rabbitQueue) Start(lc *lifecycle.Coordinator) error {
	q.logger.Info("starting queue", "backend", KindRabbitMQ, "name", q.name)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := q.Close(); err != nil {
			q.logger.Error("queue close failed", "error", err)
		}
	})

	return nil
}

func (q *rabbitQueue) Publish(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	err = q.ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish task: %w", err)
	}

	return nil
}

func (q *rabbitQueue) Consume(ctx context.Context, workers int, handler Handler) error {
	msgs, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue: %w", err)
	}

	var wg sync.WaitGroup

	for range normalizeWorkers(workers) {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-msgs:
					if !ok {
						return
					}

					var task Task
					if err := json.Unmarshal(msg.Body, &task); err != nil {
						q.logger.Error("invalid task payload", "error", err)
						_ = msg.Ack(false)
						continue
					}

					if err := handler(ctx, task); err != nil {
						q.logger.Error(
							"task handler failed, redelivering",
							"task", task.ID,
							"kind", task.Kind,
							"error", err,
						)
						_ = msg.Nack(false, true)
						continue
					}

					_ = msg.Ack(false)
				}
			}
		})
	}

	wg.Wait()
	return ctx.Err()
}

func (q *rabbitQueue) Close() error {
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

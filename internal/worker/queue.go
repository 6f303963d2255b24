package worker

import (
	"context"

	"github.com/leshachaplin/gosquared/internal/domain"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/producer"
)

type Queue interface {
	Publish(ctx context.Context, key string, payload any) error
	Consume(ctx context.Context, taskPayload chan<- domain.Envelope, done <-chan struct{})
}

// Publisher is the write side of a queue, enough for dead letters.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

type RedpandaQueue struct {
	producer *producer.Producer
	consumer *consumer.Consumer
}

func NewRedpandaQueue(producer *producer.Producer, consumer *consumer.Consumer) *RedpandaQueue {
	return &RedpandaQueue{
		producer: producer,
		consumer: consumer,
	}
}

func (r *RedpandaQueue) Publish(ctx context.Context, key string, payload any) error {
	if err := r.producer.Publish(ctx, key, payload); err != nil {
		return err
	}
	return nil
}

func (r *RedpandaQueue) Consume(ctx context.Context, taskPayload chan<- domain.Envelope, done <-chan struct{}) {
	r.consumer.Consume(ctx, taskPayload, done)
}

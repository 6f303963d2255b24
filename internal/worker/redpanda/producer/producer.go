package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

type Config struct {
	RetryAttempts int           `envconfig:"retry_attempts" default:"3"`
	RetryDelay    time.Duration `envconfig:"retry_delay" default:"1s"`
	Brokers       []string      `envconfig:"brokers"`
	Topic         string        `envconfig:"topic"`
}

type Producer struct {
	retryAttempts int
	retryDelay    time.Duration
	client        *kgo.Client
	logger        zerolog.Logger
}

func NewProducer(
	ctx context.Context,
	cfg Config,
	logger zerolog.Logger,
) (*Producer, error) {
	clientOpts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	}

	client, err := kgo.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("kgo new client: %w", err)
	}

	if err = client.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}

	retryAttempts := cfg.RetryAttempts
	if retryAttempts <= 0 {
		retryAttempts = 1
	}

	producer := &Producer{
		client:        client,
		retryAttempts: retryAttempts,
		retryDelay:    cfg.RetryDelay,
		logger:        logger,
	}

	return producer, nil
}

func (p *Producer) Close() error {
	p.client.Close()
	return nil
}

func (p *Producer) Publish(ctx context.Context, key string, msg any) error {
	const publishTimeout = 5 * time.Second

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	record := kgo.KeyStringRecord(key, string(b))

	return linearBackOff(ctx, &p.logger, p.retryAttempts, p.retryDelay, func() error {
		produceCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		res := p.client.ProduceSync(produceCtx, record)
		cancel()

		if err := res.FirstErr(); err != nil {
			return fmt.Errorf("produce sync: %w", err)
		}
		return nil
	})
}

func linearBackOff(ctx context.Context, log *zerolog.Logger, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
		} else {
			return nil
		}

		if i == attempts-1 {
			break
		}

		log.Warn().Err(err).Msgf("Retry: %d.", i)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay * time.Duration(i+1)):
		}
	}
	return err
}

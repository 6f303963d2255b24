package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/leshachaplin/gosquared/internal/domain"
)

const (
	defaultPollFetchesTimeout = 15 * time.Second
	defaultRetryCount         = 10
)

type Config struct {
	Brokers            []string      `envconfig:"brokers"`
	ConsumerGroup      string        `envconfig:"consumer_group" default:"gosquared-cg"`
	Topics             []string      `envconfig:"topics" default:"gosquared-events"`
	RetryCount         int           `envconfig:"retry_count"`
	PollFetchesTimeout time.Duration `envconfig:"poll_fetches_timeout"`
}

type Consumer struct {
	client             *kgo.Client
	retryCount         int
	pollFetchesTimeout time.Duration
	errChan            chan<- error
	logger             zerolog.Logger
}

func NewConsumer(cfg Config, errChan chan<- error, logger zerolog.Logger) (*Consumer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kgo new client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}

	consumer := &Consumer{
		client:  client,
		errChan: errChan,
		logger:  logger,
	}

	if cfg.PollFetchesTimeout == 0 {
		consumer.pollFetchesTimeout = defaultPollFetchesTimeout
	} else {
		consumer.pollFetchesTimeout = cfg.PollFetchesTimeout
	}

	if cfg.RetryCount == 0 {
		consumer.retryCount = defaultRetryCount
	} else {
		consumer.retryCount = cfg.RetryCount
	}

	return consumer, nil
}

func (c *Consumer) Close() error {
	c.client.Close()
	return nil
}

func (c *Consumer) Consume(ctx context.Context, envelopeChan chan<- domain.Envelope, done <-chan struct{}) {
	c.consume(ctx, done, func(fetches kgo.Fetches) error {
		for iter := fetches.RecordIter(); !iter.Done(); {
			record := iter.Next()

			var envelope domain.Envelope
			if err := json.Unmarshal(record.Value, &envelope); err != nil {
				c.logger.Error().Str("record", string(record.Value)).Err(err).Msg("Consume: Unmarshal envelope value.")

				if commitErr := c.client.CommitRecords(ctx, record); commitErr != nil {
					return fmt.Errorf("commit record: %w", commitErr)
				}
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-done:
				return nil
			case envelopeChan <- envelope:
			}

			if commitErr := c.client.CommitRecords(ctx, record); commitErr != nil {
				return fmt.Errorf("commit record: %w", commitErr)
			}
		}
		return nil
	})
}

func (c *Consumer) consume(ctx context.Context, done <-chan struct{}, fn func(fetches kgo.Fetches) error) {
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		default:
			fetchCtx, cancel := context.WithTimeout(ctx, c.pollFetchesTimeout)
			fetches := c.client.PollFetches(fetchCtx)
			cancel()

			if fetches.IsClientClosed() {
				c.report(errors.New("client closed"))
				return
			}

			if err := fetches.Err(); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}

				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}

				failures++
				c.report(fmt.Errorf("stream poll fetches: %w", err))
				if failures >= c.retryCount {
					return
				}
				continue
			}
			failures = 0

			if err := fn(fetches); err != nil {
				c.logger.Warn().Err(err).Msg("Consume: handle fetches.")
				continue
			}
		}
	}
}

// report hands err to the error channel without blocking the poll loop.
func (c *Consumer) report(err error) {
	select {
	case c.errChan <- err:
	default:
		c.logger.Error().Err(err).Msg("Consume: error channel full.")
	}
}

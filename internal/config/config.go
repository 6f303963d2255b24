package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/leshachaplin/gosquared/internal/dispatch"
	"github.com/leshachaplin/gosquared/internal/worker"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/producer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/topics"
)

const envPrefix = "gosquared"

// Config is the main config for the application
type Config struct {
	LogLevel      string          `envconfig:"log_level" default:"INFO"`
	Addr          string          `envconfig:"addr" default:":8080"`
	Dispatch      dispatch.Config `envconfig:"dispatch"`
	EventWorker   worker.Config   `envconfig:"event_worker"`
	EventTopics   topics.Config   `envconfig:"event_topics"`
	EventProducer producer.Config `envconfig:"event_producer"`
	ErrorProducer producer.Config `envconfig:"error_producer"`
	EventConsumer consumer.Config `envconfig:"event_consumer"`
}

// AsyncEnabled reports whether the queue backed delivery pipeline is set up.
func (c Config) AsyncEnabled() bool {
	return len(c.EventConsumer.Brokers) > 0
}

// Load reads an optional .env file and then the GOSQUARED_* environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if cfg.AsyncEnabled() {
		if len(cfg.EventProducer.Brokers) == 0 {
			cfg.EventProducer.Brokers = cfg.EventConsumer.Brokers
		}
		if cfg.EventProducer.Topic == "" && len(cfg.EventConsumer.Topics) > 0 {
			cfg.EventProducer.Topic = cfg.EventConsumer.Topics[0]
		}
		if len(cfg.ErrorProducer.Brokers) == 0 {
			cfg.ErrorProducer.Brokers = cfg.EventConsumer.Brokers
		}
	}

	return cfg, nil
}

package topics

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

type Config struct {
	Partitions        int32 `envconfig:"partitions" default:"1"`
	ReplicationFactor int16 `envconfig:"replication_factor" default:"1"`
}

// Ensure creates the topics that do not exist yet.
func Ensure(ctx context.Context, brokers []string, cfg Config, topics ...string) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return fmt.Errorf("kgo new client: %w", err)
	}
	defer client.Close()

	return EnsureWith(ctx, kadm.NewClient(client), cfg, topics...)
}

func EnsureWith(ctx context.Context, admin *kadm.Client, cfg Config, topics ...string) error {
	if len(topics) == 0 {
		return nil
	}

	partitions := cfg.Partitions
	if partitions <= 0 {
		partitions = 1
	}
	replication := cfg.ReplicationFactor
	if replication <= 0 {
		replication = 1
	}

	responses, err := admin.CreateTopics(ctx, partitions, replication, map[string]*string{}, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}

	for _, response := range responses {
		if response.Err != nil && !errors.Is(response.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", response.Topic, response.Err)
		}
	}
	return nil
}

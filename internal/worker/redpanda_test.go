package worker

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/leshachaplin/gosquared/internal/domain"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/producer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/testingh"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/topics"
)

const (
	topic = "topic"
)

type IntegrationTestSuite struct {
	ctx      context.Context
	cancelFn context.CancelFunc

	container *testingh.Container

	consumerCfg consumer.Config
	producerCfg producer.Config

	suite.Suite
}

func (i *IntegrationTestSuite) SetupSuite() {
	var err error
	i.ctx, i.cancelFn = context.WithTimeout(context.Background(), time.Minute*3)

	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	i.container, err = testingh.NewContainer()
	i.Require().NoError(err)

	err = topics.Ensure(i.ctx, []string{i.container.Broker()}, topics.Config{}, topic)
	i.Require().NoError(err)

	i.consumerCfg = consumer.Config{
		Brokers:       []string{i.container.Broker()},
		ConsumerGroup: "topic-cg",
		Topics:        []string{topic},
		RetryCount:    5,
	}
	i.producerCfg = producer.Config{
		RetryAttempts: 5,
		RetryDelay:    time.Second,
		Brokers:       []string{i.container.Broker()},
		Topic:         topic,
	}
}

func (i *IntegrationTestSuite) TearDownSuite() {
	i.cancelFn()
	err := i.container.Purge()
	i.Assert().NoError(err)
}

func TestIntegrationTestSuite(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run tests against a redpanda container")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (i *IntegrationTestSuite) TestWorker_RedpandaQueue() {
	cases := map[string]struct {
		cfg        Config
		taskAmount int
	}{
		"ok": {
			cfg:        Config{NumWorkers: 10},
			taskAmount: 10,
		},
		"ok - tasks more than workers": {
			cfg:        Config{NumWorkers: 4},
			taskAmount: 100,
		},
	}

	for name, tc := range cases {
		i.Run(name, func() {
			ctx, cancel := context.WithTimeout(i.ctx, time.Minute)
			defer cancel()

			consumerErrorChan := make(chan error, 1)
			c, err := consumer.NewConsumer(i.consumerCfg, consumerErrorChan, zerolog.Nop())
			i.Require().NoError(err)

			p, err := producer.NewProducer(ctx, i.producerCfg, zerolog.Nop())
			i.Require().NoError(err)

			wg := &sync.WaitGroup{}
			wg.Add(tc.taskAmount)
			execFn := func(ctx context.Context, envelope domain.Envelope) error {
				i.Equal(domain.KindTrack, envelope.Kind)
				wg.Done()
				return nil
			}

			pool := New(ctx, tc.cfg, NewRedpandaQueue(p, c), nil, zerolog.Nop())
			pool.Start(execFn)

			for k := 0; k < tc.taskAmount; k++ {
				pool.Process(domain.Envelope{
					ID:   uuid.NewString(),
					Kind: domain.KindTrack,
					Event: domain.Event{
						Data: domain.Data{Type: domain.KindTrack, Track: &domain.TrackData{Name: "Signed Up"}},
					},
					Settings: map[string]string{"api_key": "k", "site_token": "t"},
				})
			}

			waitTimeout(i.T(), wg, time.Minute)
			pool.GracefulStop()
			i.NoError(c.Close())
			i.NoError(p.Close())
		})
	}
}

package http

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/suite"

	"github.com/leshachaplin/gosquared/app"
	"github.com/leshachaplin/gosquared/internal/config"
	"github.com/leshachaplin/gosquared/internal/dispatch"
	"github.com/leshachaplin/gosquared/internal/worker"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/producer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/testingh"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/topics"
)

const (
	eventTopic        = "gosquared-events"
	errorTopic        = "gosquared-errors"
	defaultAddrPublic = ":18080"
)

type IntegrationTestSuite struct {
	ctx      context.Context
	cancelFn context.CancelFunc

	redpandaContainer *testingh.Container
	app               *app.App
	client            *Client

	wg *sync.WaitGroup

	suite.Suite
}

func (i *IntegrationTestSuite) SetupSuite() {
	var err error
	i.ctx, i.cancelFn = context.WithTimeout(context.Background(), time.Minute*2)

	i.redpandaContainer, err = testingh.NewContainer()
	i.Require().NoError(err)
	broker := i.redpandaContainer.Broker()

	i.app = app.New(func() (config.Config, error) {
		return config.Config{
			LogLevel: string(app.DEBUG),
			Addr:     defaultAddrPublic,
			Dispatch: dispatch.Config{
				Timeout:      time.Second * 5,
				RetryWaitMin: time.Millisecond * 100,
				RetryWaitMax: time.Second,
			},
			EventWorker: worker.Config{
				NumWorkers: 4,
			},
			EventTopics: topics.Config{
				Partitions:        1,
				ReplicationFactor: 1,
			},
			EventConsumer: consumer.Config{
				Brokers:       []string{broker},
				ConsumerGroup: "gosquared-it-cg",
				Topics:        []string{eventTopic},
				RetryCount:    5,
			},
			EventProducer: producer.Config{
				RetryAttempts: 5,
				RetryDelay:    time.Second,
				Brokers:       []string{broker},
				Topic:         eventTopic,
			},
			ErrorProducer: producer.Config{
				RetryAttempts: 5,
				RetryDelay:    time.Second,
				Brokers:       []string{broker},
				Topic:         errorTopic,
			},
		}, nil
	})

	i.wg = &sync.WaitGroup{}
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.app.Start()
	}()

	url := fmt.Sprintf("http://localhost%s", defaultAddrPublic)
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = 5 * time.Second
	retryClient.RetryMax = 10
	resp, err := retryClient.Get(url + "/_/ready")
	i.Require().NoError(err)
	_ = resp.Body.Close()

	i.client = NewClient(url, retryClient.StandardClient())
}

func (i *IntegrationTestSuite) TearDownSuite() {
	i.app.Stop()
	i.wg.Wait()
	i.cancelFn()
	i.Assert().NoError(i.redpandaContainer.Purge())
}

func TestIntegrationTestSuite(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION to run against a redpanda container")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

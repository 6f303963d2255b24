package app

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/leshachaplin/gosquared/app/waiter"
	"github.com/leshachaplin/gosquared/internal/config"
	"github.com/leshachaplin/gosquared/internal/dispatch"
	appServer "github.com/leshachaplin/gosquared/internal/server/http"
	"github.com/leshachaplin/gosquared/internal/service"
	"github.com/leshachaplin/gosquared/internal/worker"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/producer"
	"github.com/leshachaplin/gosquared/internal/worker/redpanda/topics"
)

type LoadConfigFn func() (config.Config, error)

type App struct {
	cfg      config.Config
	logger   zerolog.Logger
	server   *appServer.Server
	waiter   waiter.Waiter
	ctx      context.Context
	cancelFn context.CancelFunc
}

func New(loadConfigFn LoadConfigFn) *App {
	ctx, cancelFn := context.WithCancel(context.Background())
	cfg, err := loadConfigFn()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := NewZeroLogger(Level(cfg.LogLevel))

	w := waiter.NewWaiter(ctx, cancelFn)

	return &App{
		cfg:      cfg,
		logger:   logger,
		waiter:   w,
		ctx:      w.Context(),
		cancelFn: cancelFn,
	}
}

func (a *App) Start() {
	defer a.cancelFn()

	sender := dispatch.New(a.cfg.Dispatch, a.logger.With().Str("component", "dispatch").Logger())

	var pool worker.WorkerPool
	if a.cfg.AsyncEnabled() {
		p, closeFn, err := a.startPipeline()
		if err != nil {
			a.logger.Fatal().Err(err).Msg("Could not setup delivery pipeline.")
		}
		defer closeFn()
		pool = p
	}

	svc := service.New(sender, pool, a.logger.With().Str("component", "service").Logger())
	handler := appServer.NewHandler(svc, a.logger)

	a.server = appServer.New(handler, a.logger)

	a.waitForServer()
	if pool != nil {
		a.waitForWorker(pool)
	}

	if err := a.waiter.Wait(); err != nil {
		a.logger.Fatal().Err(err).Msg("App crash.")
	}
}

func (a *App) Stop() {
	a.cancelFn()
}

// startPipeline connects the queue backed worker pool. The returned function
// closes the broker clients.
func (a *App) startPipeline() (*worker.Pool, func(), error) {
	var closers []func() error
	closeFn := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				a.logger.Warn().Err(err).Msg("error while closing broker client")
			}
		}
	}

	topicNames := append([]string{}, a.cfg.EventConsumer.Topics...)
	if a.cfg.ErrorProducer.Topic != "" {
		topicNames = append(topicNames, a.cfg.ErrorProducer.Topic)
	}
	if err := topics.Ensure(a.ctx, a.cfg.EventConsumer.Brokers, a.cfg.EventTopics, topicNames...); err != nil {
		return nil, closeFn, err
	}

	consumerErrorChan := make(chan error, 1)
	eventConsumer, err := consumer.NewConsumer(
		a.cfg.EventConsumer,
		consumerErrorChan,
		a.logger.With().Str("event consumer", "Consume").Logger(),
	)
	if err != nil {
		return nil, closeFn, err
	}
	closers = append(closers, eventConsumer.Close)
	a.waitForConsumerErrors(consumerErrorChan)

	eventProducer, err := producer.NewProducer(
		a.ctx,
		a.cfg.EventProducer,
		a.logger.With().Str("event producer", "Publish").Logger(),
	)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	closers = append(closers, eventProducer.Close)

	var errorQueue worker.Publisher
	if a.cfg.ErrorProducer.Topic != "" {
		errorProducer, err := producer.NewProducer(
			a.ctx,
			a.cfg.ErrorProducer,
			a.logger.With().Str("error producer", "Publish").Logger(),
		)
		if err != nil {
			closeFn()
			return nil, func() {}, err
		}
		closers = append(closers, errorProducer.Close)
		errorQueue = errorProducer
	}

	eventQueue := worker.NewRedpandaQueue(eventProducer, eventConsumer)
	l := a.logger.With().Str("WORKER", "DELIVERY").Logger()
	return worker.New(a.ctx, a.cfg.EventWorker, eventQueue, errorQueue, l), closeFn, nil
}

func (a *App) waitForServer() {
	a.waiter.Add(func(ctx context.Context) error {
		defer a.logger.Debug().Msg("server has been shutdown")

		group, gCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			defer a.logger.Debug().Msg("public server exited")
			a.logger.Info().Str("starting server at: ", a.cfg.Addr).Send()
			err := a.server.ServePublic(a.cfg.Addr)
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})

		group.Go(func() error {
			<-gCtx.Done()
			a.logger.Debug().Msg("shutting down the server")
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := a.server.ShutdownPublic(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("error while shutting down the server")
			}
			return nil
		})

		return group.Wait()
	})
}

func (a *App) waitForWorker(pool worker.WorkerPool) {
	a.waiter.Add(func(ctx context.Context) error {
		<-ctx.Done()
		pool.GracefulStop()
		return nil
	})
}

func (a *App) waitForConsumerErrors(errChan <-chan error) {
	a.waiter.Add(func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-errChan:
				a.logger.Error().Err(err).Msg("event consumer failure")
			}
		}
	})
}

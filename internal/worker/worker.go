package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/leshachaplin/gosquared/internal/domain"
)

type ExecuteFn func(ctx context.Context, envelope domain.Envelope) error

type WorkerPool interface {
	Start(executeFn ExecuteFn)
	GracefulStop()
	Process(envelope domain.Envelope)
}

type Pool struct {
	numWorkers  int
	taskPayload chan domain.Envelope
	queue       Queue
	errorQueue  Publisher
	start       sync.Once
	stop        sync.Once
	doneChan    chan struct{}
	ctx         context.Context
	cancelFn    context.CancelFunc
	wg          *sync.WaitGroup
	logger      zerolog.Logger
}

// New creates a pool consuming from queue. Envelopes that fail to publish or
// to execute go to errorQueue, which may be nil to only log them.
func New(ctx context.Context, cfg Config, queue Queue, errorQueue Publisher, logger zerolog.Logger) *Pool {
	c, cancelFn := context.WithCancel(ctx)
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers:  numWorkers,
		taskPayload: make(chan domain.Envelope, numWorkers),
		doneChan:    make(chan struct{}),
		queue:       queue,
		errorQueue:  errorQueue,
		ctx:         c,
		cancelFn:    cancelFn,
		wg:          &sync.WaitGroup{},
		logger:      logger,
	}
}

func (w *Pool) Start(executeFn ExecuteFn) {
	w.start.Do(func() {
		for i := 0; i < w.numWorkers; i++ {
			w.wg.Add(1)
			l := w.logger.With().Int("worker", i).Logger()
			go w.work(w.ctx, l, executeFn)
		}

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.queue.Consume(w.ctx, w.taskPayload, w.doneChan)
		}()
	})
}

func (w *Pool) GracefulStop() {
	w.stop.Do(func() {
		close(w.doneChan)
		w.cancelFn()
		w.wg.Wait()
	})
}

func (w *Pool) Process(envelope domain.Envelope) {
	if err := w.queue.Publish(w.ctx, envelope.ID, envelope); err != nil {
		w.onFailure(envelope, err)
	}
}

func (w *Pool) onFailure(envelope domain.Envelope, err error) {
	l := w.logger.With().Str("ENVELOPE_ID", envelope.ID).Str("KIND", string(envelope.Kind)).Logger()
	if w.errorQueue == nil {
		l.Error().Err(err).Msg("failed to process envelope")
		return
	}

	p := payload{
		Payload: envelope,
	}
	p.SetErrorReason(err)
	if errPublish := w.errorQueue.Publish(w.ctx, envelope.ID, p); errPublish != nil {
		l.Error().Err(err).AnErr("publish_error", errPublish).Msg("failed to process envelope")
	}
}

func (w *Pool) work(ctx context.Context, logger zerolog.Logger, executeFn ExecuteFn) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.doneChan:
			return
		case pld, ok := <-w.taskPayload:
			if !ok {
				return
			}

			logger.Debug().Str("ENVELOPE_ID", pld.ID).Str("KIND", string(pld.Kind)).Msg("start processing envelope")
			if err := executeFn(ctx, pld); err != nil {
				w.onFailure(pld, err)
			}
			logger.Debug().Str("ENVELOPE_ID", pld.ID).Msg("end processing envelope")
		}
	}
}

type payload struct {
	Payload domain.Envelope `json:"payload"`
	Error   *errorReason    `json:"error_reason"`
}

func (c *payload) SetErrorReason(err error) {
	if c.Error == nil {
		c.Error = new(errorReason)
	}
	c.Error.Reason = err
}

func (c *payload) GetErrorReason() error {
	if c.Error != nil {
		return c.Error.Reason
	}
	return nil
}

type errorReason struct {
	Reason error
}

func (e errorReason) MarshalJSON() ([]byte, error) {
	if e.Reason != nil {
		return json.Marshal(e.Reason.Error())
	}
	return json.Marshal(nil)
}

func (e *errorReason) UnmarshalJSON(data []byte) error {
	var reason string
	if err := json.Unmarshal(data, &reason); err != nil {
		return err
	}
	e.Reason = errors.New(reason)
	return nil
}

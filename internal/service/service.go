package service

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/leshachaplin/gosquared/internal/dispatch"
	"github.com/leshachaplin/gosquared/internal/domain"
	"github.com/leshachaplin/gosquared/internal/gosquared"
	"github.com/leshachaplin/gosquared/internal/worker"
)

var (
	ErrUnknownKind   = errors.New("unknown event kind")
	ErrAsyncDisabled = errors.New("async delivery is disabled")
)

type Sender interface {
	Send(ctx context.Context, req domain.Request, clientHeaders http.Header) (dispatch.Result, error)
}

type Processor interface {
	Build(kind domain.Kind, event domain.Event, settings map[string]string) (domain.Request, error)
	Send(ctx context.Context, envelope domain.Envelope) (dispatch.Result, error)
	Enqueue(envelope domain.Envelope) error
}

type Service struct {
	sender Sender
	pool   worker.WorkerPool
	logger zerolog.Logger
}

// New wires the service. pool may be nil, in which case Enqueue is refused.
func New(sender Sender, pool worker.WorkerPool, logger zerolog.Logger) *Service {
	s := &Service{
		sender: sender,
		pool:   pool,
		logger: logger,
	}
	if pool != nil {
		pool.Start(s.Deliver)
	}
	return s
}

func (s *Service) Build(kind domain.Kind, event domain.Event, settings map[string]string) (domain.Request, error) {
	switch kind {
	case domain.KindPage:
		if props := gosquared.PageProperties(event); len(props) > 0 {
			s.logger.Debug().Interface("page_properties", props).Msg("page properties are not part of a pageview")
		}
		return gosquared.Page(event, settings)
	case domain.KindTrack:
		return gosquared.Track(event, settings)
	case domain.KindUser:
		return gosquared.User(event, settings)
	default:
		return domain.Request{}, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}

func (s *Service) Send(ctx context.Context, envelope domain.Envelope) (dispatch.Result, error) {
	req, err := s.Build(envelope.Kind, envelope.Event, envelope.Settings)
	if err != nil {
		return dispatch.Result{}, err
	}

	res, err := s.sender.Send(ctx, req, envelope.ClientHeaders)
	if err != nil {
		return res, errors.Wrapf(err, "deliver %s %s", envelope.Kind, envelope.ID)
	}
	return res, nil
}

// Deliver is the worker pool's execute function.
func (s *Service) Deliver(ctx context.Context, envelope domain.Envelope) error {
	res, err := s.Send(ctx, envelope)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("ENVELOPE_ID", envelope.ID).Int("status", res.StatusCode).Msg("envelope delivered")
	return nil
}

// Enqueue checks that the envelope builds a request and hands it to the pool.
func (s *Service) Enqueue(envelope domain.Envelope) error {
	if s.pool == nil {
		return ErrAsyncDisabled
	}
	if _, err := s.Build(envelope.Kind, envelope.Event, envelope.Settings); err != nil {
		return err
	}

	s.pool.Process(envelope)
	return nil
}

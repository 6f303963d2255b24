package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/leshachaplin/gosquared/internal/domain"
)

// forwardedHeaders are the client headers copied onto a request that asks for
// client header forwarding.
var forwardedHeaders = []string{
	"User-Agent",
	"Accept-Language",
	"Referer",
	"X-Forwarded-For",
}

type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

type Result struct {
	StatusCode int `json:"status_code"`
}

// Sender delivers request descriptors over HTTP.
type Sender struct {
	client *retryablehttp.Client
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Sender {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = cfg.Timeout
	client.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}
	client.Logger = leveledLogger{logger: logger}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Sender{
		client: client,
		logger: logger,
	}
}

func (s *Sender) Send(ctx context.Context, req domain.Request, clientHeaders http.Header) (Result, error) {
	r, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, strings.NewReader(req.Body))
	if err != nil {
		return Result{}, fmt.Errorf("new request: %w", redactError(err))
	}

	if req.ForwardClientHeaders {
		for _, key := range forwardedHeaders {
			if v := clientHeaders.Get(key); v != "" {
				r.Header.Set(key, v)
			}
		}
	}
	for _, h := range req.Headers {
		r.Header.Set(h.Key, h.Value)
	}

	res, err := s.client.Do(r)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", redactError(err))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return Result{StatusCode: res.StatusCode}, StatusError{Code: res.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, res.Body)

	s.logger.Debug().Str("method", req.Method).Int("status", res.StatusCode).Msg("request delivered")
	return Result{StatusCode: res.StatusCode}, nil
}

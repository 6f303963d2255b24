package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/leshachaplin/gosquared/internal/apierror"
	"github.com/leshachaplin/gosquared/internal/dispatch"
	"github.com/leshachaplin/gosquared/internal/domain"
	"github.com/leshachaplin/gosquared/internal/gosquared"
	"github.com/leshachaplin/gosquared/internal/service"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	processor service.Processor
	logger    zerolog.Logger
}

func NewHandler(processor service.Processor, logger zerolog.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

type eventRequest struct {
	Event    domain.Event      `json:"event"`
	Settings map[string]string `json:"settings"`
}

// Build answers with the request descriptor for the event without sending it.
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	kind, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	out, err := h.processor.Build(kind, req.Event, req.Settings)
	if err != nil {
		h.error(err, w)
		return
	}

	if err = encodeJSONResponse(w, http.StatusOK, out); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode request descriptor")
	}
}

// Send builds the request and delivers it before answering.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	kind, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	envelope := domain.NewEnvelope(kind, req.Event, req.Settings, clientHeaders(r))
	res, err := h.processor.Send(r.Context(), envelope)
	if err != nil {
		h.error(err, w)
		return
	}

	if err = encodeJSONResponse(w, http.StatusOK, res); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode delivery result")
	}
}

// Enqueue hands the event to the delivery pipeline.
func (h *Handler) Enqueue(w http.ResponseWriter, r *http.Request) {
	kind, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	envelope := domain.NewEnvelope(kind, req.Event, req.Settings, clientHeaders(r))
	if err := h.processor.Enqueue(envelope); err != nil {
		h.error(err, w)
		return
	}

	if err := encodeJSONResponse(w, http.StatusAccepted, map[string]string{"id": envelope.ID}); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode envelope id")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (domain.Kind, eventRequest, bool) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		h.error(apierror.NewAPIError("unknown event kind: "+string(kind), http.StatusNotFound), w)
		return "", eventRequest{}, false
	}

	var req eventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.error(apierror.NewAPIError("invalid request body: "+err.Error(), http.StatusBadRequest), w)
		return "", eventRequest{}, false
	}
	return kind, req, true
}

func (h *Handler) error(err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	var apiErr apierror.Error
	if !errors.As(err, &apiErr) {
		apiErr = toAPIError(err)
	}

	if apiErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Int("status", apiErr.StatusCode()).Msg("request failed")
	}

	w.WriteHeader(apiErr.StatusCode())
	if err = json.NewEncoder(w).Encode(apiErr); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode api error")
	}
}

func toAPIError(err error) apierror.Error {
	var statusErr dispatch.StatusError
	switch {
	case errors.Is(err, gosquared.ErrMissingConfiguration):
		return apierror.NewAPIError(err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrUnknownKind):
		return apierror.NewAPIError(err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrAsyncDisabled):
		return apierror.NewAPIError(err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &statusErr):
		return apierror.NewAPIError(err.Error(), http.StatusBadGateway).WithDetail("status_code", statusErr.Code)
	default:
		return apierror.NewAPIError(err.Error(), http.StatusInternalServerError)
	}
}

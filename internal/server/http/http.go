package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	mu           sync.Mutex
	closed       bool
	public       *http.Server
	publicRouter *chi.Mux

	handler *Handler
	logger  zerolog.Logger
}

func New(handler *Handler, logger zerolog.Logger, mws ...func(http.Handler) http.Handler) *Server {
	s := &Server{
		publicRouter: chi.NewRouter(),

		handler: handler,
		logger:  logger,
	}
	s.registerPublicRoutes(mws...)
	return s
}

// Router exposes the routes without a listener.
func (s *Server) Router() http.Handler {
	return s.publicRouter
}

func (s *Server) ServePublic(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	public := &http.Server{
		Addr:         addr,
		Handler:      s.publicRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.public = public
	s.mu.Unlock()

	return public.ListenAndServe()
}

func (s *Server) ShutdownPublic(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	public := s.public
	s.mu.Unlock()

	if public == nil {
		return nil
	}
	if err := public.Shutdown(ctx); err != nil {
		return public.Close()
	}
	return nil
}

func (s *Server) registerPublicRoutes(middlewares ...func(http.Handler) http.Handler) {
	s.publicRouter.Use(middleware.RequestID, middleware.Recoverer, requestLogger(s.logger))
	s.publicRouter.Use(middlewares...)

	s.publicRouter.Get("/_/ready", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	s.publicRouter.Route("/v1", func(r chi.Router) {
		r.Post("/{kind}", s.handler.Build)
		r.Post("/{kind}/send", s.handler.Send)
		r.Post("/{kind}/enqueue", s.handler.Enqueue)
	})
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("duration", time.Since(start)).
					Msg("request served")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

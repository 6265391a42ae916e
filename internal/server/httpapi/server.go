// Package httpapi exposes the log, safe-list and analysis services as a
// JSON API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/gastrolog/internal/logging"
	"github.com/dmitrijs2005/gastrolog/internal/server/classifier"
	"github.com/dmitrijs2005/gastrolog/internal/server/models"
)

type logService interface {
	List(ctx context.Context, userID string) ([]models.LogRecord, error)
	Save(ctx context.Context, userID string, recs []models.LogRecord) (int, error)
	Delete(ctx context.Context, userID, id string) error
}

type safeListService interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID string, items []string) ([]string, error)
}

type analysisService interface {
	Analyze(ctx context.Context, userID string, req classifier.Request) ([]string, error)
}

type Options struct {
	Address         string
	JWTSecret       string
	FrontendURL     string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	opts     Options
	logs     logService
	safeList safeListService
	analysis analysisService
	logger   logging.Logger
	secret   []byte
}

func NewHTTPServer(opts Options, l logging.Logger, ls logService, ss safeListService, as analysisService) *HTTPServer {
	return &HTTPServer{
		opts:     opts,
		logs:     ls,
		safeList: ss,
		analysis: as,
		logger:   logging.Component(l, "httpapi"),
		secret:   []byte(opts.JWTSecret),
	}
}

// Handler builds the router.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.limitBody)

		r.Get("/logs", s.listLogs)
		r.Post("/logs", s.saveLogs)
		r.Delete("/logs/{id}", s.deleteLog)

		r.Get("/safelist", s.getSafeList)
		r.Post("/safelist", s.saveSafeList)

		r.Post("/analyze", s.analyze)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method_not_allowed", Message: "Method not allowed"})
	})
	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

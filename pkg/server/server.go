// Package server exposes canvas sessions over HTTP.
//
// Each session is one mounted canvas. Clients forward their input events
// (wheel, pointer down/move/up, ratio slider, anchor selector) and fetch
// rendered frames:
//
//	POST   /sessions                       create (optional body: view snapshot)
//	GET    /sessions/{id}                  view snapshot and zoom indicator
//	DELETE /sessions/{id}                  end the session
//	POST   /sessions/{id}/wheel            {"x", "y", "delta_y"}
//	POST   /sessions/{id}/pointer/down     {"x", "y"}
//	POST   /sessions/{id}/pointer/move     {"x", "y"}
//	POST   /sessions/{id}/pointer/up
//	PUT    /sessions/{id}/ratio            {"ratio"}
//	PUT    /sessions/{id}/anchor           {"anchor"}
//	POST   /sessions/{id}/reset
//	GET    /sessions/{id}/frame.{format}   png, svg or json; ?width=&height=&overlay=
//
// Errors are JSON bodies {"code", "error"}; see pkg/httputil.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/infinicanvas/pkg/frame"
	"github.com/matzehuels/infinicanvas/pkg/pipeline"
	"github.com/matzehuels/infinicanvas/pkg/session"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// Defaults for zero Options fields.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCleanupInterval = time.Minute
)

// Options configures a Server.
type Options struct {
	Addr string

	// Frame size used when a frame request has no width or height.
	Width  int
	Height int

	Avatar string
	Frame  *frame.Options

	// Initial is the view of sessions created without a body.
	Initial view.Snapshot

	ShutdownTimeout time.Duration
	CleanupInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.Width <= 0 {
		o.Width = pipeline.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = pipeline.DefaultHeight
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = DefaultShutdownTimeout
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = DefaultCleanupInterval
	}
	o.Initial = o.Initial.Normalized()
	return o
}

// Server is the HTTP host.
type Server struct {
	sessions *session.Manager
	runner   *pipeline.Runner
	opts     Options
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. A nil logger uses log.Default().
func New(sessions *session.Manager, runner *pipeline.Runner, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sessions: sessions,
		runner:   runner,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(serverHooks)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/wheel", s.handleWheel)
			r.Post("/pointer/down", s.handlePointerDown)
			r.Post("/pointer/move", s.handlePointerMove)
			r.Post("/pointer/up", s.handlePointerUp)
			r.Put("/ratio", s.handleRatio)
			r.Put("/anchor", s.handleAnchor)
			r.Post("/reset", s.handleReset)
			r.Get("/frame.{format}", s.handleFrame)
		})
	})
	return r
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. In-flight requests get
// ShutdownTimeout to finish. Expired sessions are swept every
// CleanupInterval while serving.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	go s.cleanupLoop(loopCtx)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

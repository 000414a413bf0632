// Package server exposes profiles, reports, team comparisons and CMJ analysis over HTTP. Each
// client cookie gets its own session: dataset snapshot, selection, display mode and notes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
	"github.com/Antoink/SDRV3/internal/logging"
	"github.com/Antoink/SDRV3/internal/photo"
	"github.com/Antoink/SDRV3/internal/session"
	"github.com/Antoink/SDRV3/internal/team"
)

const (
	defaultReadTimeout = 30 * time.Second
	writeTimeout       = 60 * time.Second
	idleTimeout        = 120 * time.Second
	readHeaderTimeout  = 5 * time.Second
	shutdownTimeout    = 10 * time.Second

	// maxUpload bounds the multipart body of a dataset upload.
	maxUpload = 32 << 20
)

// Options configure a Server.
type Options struct {
	Addr        string
	APIKey      string
	ReadTimeout time.Duration

	Registry *indicator.Registry
	Sessions *session.Manager
	Photos   photo.Finder
	Logos    []string
	TopN     int

	// DataPath is the working data file an upload overwrites.
	DataPath string
	Sheet    string
	// CMJ loads the jump export; nil disables the CMJ endpoints.
	CMJ func() (*dataset.Dataset, error)
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	opt      Options
	reg      *indicator.Registry
	sessions *session.Manager
	teams    *team.Comparer
	metrics  *Metrics
	log      *logrus.Entry
}

// New returns a server. A nil registry uses the default tables and a nil manager starts every
// client with an empty session.
func New(opt Options) *Server {
	if opt.Registry == nil {
		opt.Registry = indicator.Default()
	}
	if opt.Sessions == nil {
		opt.Sessions = session.NewManager(nil, 0)
	}
	if opt.ReadTimeout <= 0 {
		opt.ReadTimeout = defaultReadTimeout
	}
	return &Server{
		opt:      opt,
		reg:      opt.Registry,
		sessions: opt.Sessions,
		teams:    team.New(opt.Registry),
		metrics:  NewMetrics(opt.Sessions.Len),
		log:      logging.For("server"),
	}
}

// Metrics returns the server collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler builds the route table. Health and metrics stay reachable without the API key.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		api.HandleFunc(pattern, s.metrics.Wrap(endpoint, s.withSession(h)))
	}
	route("GET /api/session", "session", s.handleSession)
	route("POST /api/session/relative", "relative", s.handleRelative)
	route("POST /api/session/reload", "reload", s.handleReload)
	route("POST /api/upload", "upload", s.handleUpload)
	route("GET /api/athletes", "athletes", s.handleAthletes)
	route("POST /api/athletes/{name}/select", "select", s.handleSelect)
	route("GET /api/athletes/{name}/profile", "profile", s.handleProfile)
	route("GET /api/athletes/{name}/report", "report", s.handleReport)
	route("GET /api/athletes/{name}/notes", "notes", s.handleGetNotes)
	route("PUT /api/athletes/{name}/notes", "notes", s.handlePutNotes)
	route("GET /api/indicators", "indicators", s.handleIndicators)
	route("GET /api/team/positions", "positions", s.handlePositions)
	route("GET /api/team/ranking", "ranking", s.handleRanking)
	route("GET /api/team/scatter", "scatter", s.handleScatter)
	route("GET /api/team/distribution", "distribution", s.handleDistribution)
	route("GET /api/cmj/kpis", "cmj_kpis", s.handleCMJKPIs)
	route("GET /api/cmj/compare", "cmj_compare", s.handleCMJCompare)
	route("GET /api/cmj/phases/{phase}", "cmj_phase", s.handleCMJPhase)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", s.metrics.Wrap("health", s.handleHealth))
	root.Handle("GET /metrics", s.metrics.Handler())
	root.Handle("/api/", requireKey(s.opt.APIKey, api))
	return root
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opt.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.opt.ReadTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.opt.Addr).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

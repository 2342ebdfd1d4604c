// Package gateway exposes table creation, deletion and row updates over HTTP.
//
// Three POST endpoints are served: /create, /delete and /update. Every
// response carries permissive CORS headers and a JSON body of either
// {"message": ...} or {"error": ..., "details": ...}.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/autocrud/pkg/core"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxBodyBytes caps request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// TableManager is the schema surface the gateway dispatches to.
// *schema.Manager satisfies it.
type TableManager interface {
	CreateTable(ctx context.Context, name string, sample *core.Record) error
	DropTable(ctx context.Context, name string) error
	AlterRows(ctx context.Context, name, setClause, condition string) error
}

// Config holds configuration for the gateway server.
type Config struct {
	Tables TableManager
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int64
	// ReadHeaderTimeout bounds slow clients (default 10s).
	ReadHeaderTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown (default 5s).
	ShutdownTimeout time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Server is the HTTP gateway.
type Server struct {
	cfg      Config
	handlers *Handlers
	logger   *slog.Logger
}

// New creates a gateway server.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		cfg:      cfg,
		handlers: NewHandlers(cfg.Tables, cfg.Logger),
		logger:   cfg.Logger,
	}
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		cors,
		recoverJSON(s.logger),
		postOnly,
		limitBody(s.cfg.MaxBodyBytes),
	)
	SetupRoutes(r, s.handlers)
	return r
}

// Serve starts the gateway and blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting gateway", "addr", s.cfg.Addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down gateway...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

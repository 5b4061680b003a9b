// Package server provides HTTP API for the theme selector and theme selection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lcw/v2"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/themer/app/store"
)

// Server represents the HTTP server.
type Server struct {
	selector  Selector
	document  Document
	selection Selection
	keys      KeyStore
	cfg       Config
	auth      *Auth

	mu sync.Mutex // serializes selector and document access, both are single-caller types
}

// Selector defines the dark mode toggle operations.
// Defined here (consumer side) to allow different implementations.
type Selector interface {
	Toggle(ctx context.Context) bool
	IsDark() bool
	Label() string
	Icon() string
}

// Document exposes the class list the selector keeps in sync.
type Document interface {
	Classes() []string
}

// Selection defines validated theme selection.
type Selection interface {
	Select(ctx context.Context, theme string) (string, error)
	Current(ctx context.Context) (string, error)
	Reset(ctx context.Context) error
	Themes() ([]string, error)
}

// KeyStore lists stored keys for the admin view, nil disables it.
type KeyStore interface {
	List(ctx context.Context) ([]store.KeyInfo, error)
}

// cacheStater is implemented by cached stores.
type cacheStater interface {
	Stats() lcw.CacheStat
}

// Config holds server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Version         string
	PasswordHash    string // bcrypt hash for admin password, empty = auth disabled

	// limits
	BodySizeLimit  int64 // max request body size in bytes
	RequestsPerSec int64 // max requests per second
}

// New creates a new Server instance.
func New(sel Selector, doc Document, svc Selection, keys KeyStore, cfg Config) *Server {
	return &Server{
		selector:  sel,
		document:  doc,
		selection: svc,
		keys:      keys,
		cfg:       cfg,
		auth:      NewAuth(cfg.PasswordHash),
	}
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.routes(),
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	// graceful shutdown
	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] shutdown error: %v", err)
		}
		if cs, ok := s.keys.(cacheStater); ok {
			log.Printf("[INFO] cache stats: %+v", cs.Stats())
		}
	}()

	log.Printf("[DEBUG] started server on %s", s.cfg.Address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// routes configures and returns the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	router.Use(
		rest.Recoverer(log.Default()),
		rest.RealIP, // must be before Throttle to rate-limit by real client IP
		rest.Throttle(s.requestsPerSec()),
		rest.Trace,
		rest.SizeLimit(s.bodySizeLimit()),
		rest.AppInfo("themer", "umputun", s.cfg.Version),
		rest.Ping,
	)

	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.HandleFunc("GET /theme", s.handleGetTheme)
		api.HandleFunc("GET /themes", s.handleListThemes)
		api.HandleFunc("GET /selection", s.handleGetSelection)

		// mutating and admin routes, basic auth if enabled
		api.Group().Route(func(protected *routegroup.Bundle) {
			protected.Use(s.auth.Middleware)
			protected.HandleFunc("POST /theme/toggle", s.handleToggle)
			protected.HandleFunc("PUT /selection", s.handleSelect)
			protected.HandleFunc("DELETE /selection", s.handleResetSelection)
			protected.HandleFunc("GET /keys", s.handleListKeys)
		})
	})

	return router
}

// bodySizeLimit returns the configured body size limit, or default 64KB if not set.
func (s *Server) bodySizeLimit() int64 {
	if s.cfg.BodySizeLimit > 0 {
		return s.cfg.BodySizeLimit
	}
	return 64 * 1024
}

// requestsPerSec returns the configured requests per second limit, or default 100 if not set.
func (s *Server) requestsPerSec() int64 {
	if s.cfg.RequestsPerSec > 0 {
		return s.cfg.RequestsPerSec
	}
	return 100
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 5 * time.Second
}

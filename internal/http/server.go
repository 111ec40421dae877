package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"policymap/internal/core"
	"policymap/internal/log"
	"policymap/internal/middleware/ratelimit"
	"policymap/internal/middleware/security"
	"policymap/internal/middleware/trace"
	"policymap/internal/services"
)

// Catalog is the query surface the handlers need from services.Catalog.
type Catalog interface {
	Reload(ctx context.Context) (*services.Snapshot, error)
	Snapshot() *services.Snapshot
	Ready() bool
	Lookup(code string) (core.StateSummary, error)
	LookupFIPS(id string) (core.StateSummary, error)
	LookupName(name string) (core.StateSummary, error)
	Search(query string) ([]string, error)
	States(query string) ([]core.StateSummary, error)
	Suggest(query string, limit int) ([]string, error)
}

var _ Catalog = (*services.Catalog)(nil)

// Options configures NewServer. Zero values pick defaults.
type Options struct {
	Logger             *log.Logger
	RateLimitPerMinute int
	ReloadTimeout      time.Duration
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

type Server struct {
	http.Server
	catalog       Catalog
	limiter       *ratelimit.Limiter
	detector      *security.Detector
	reloadTimeout time.Duration
	shutdownOnce  sync.Once
}

func NewServer(addr string, catalog Catalog, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = 30 * time.Second
	}

	s := &Server{
		catalog:       catalog,
		detector:      security.NewDetector(),
		limiter:       ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		reloadTimeout: opts.ReloadTimeout,
	}

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/states", s.handleStates)
	mux.HandleFunc("GET /api/states/{code}", s.handleState)
	mux.HandleFunc("GET /api/fips/{id}", s.handleFIPS)
	mux.HandleFunc("GET /api/names/{name}", s.handleName)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/diagnostics", s.handleDiagnostics)
	mux.Handle("POST /api/reload", limited(http.HandlerFunc(s.handleReload)))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	tracer := trace.NewMiddleware(logger, s.detector.ExtractClientIP, s.detector.IsSuspicious)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      opts.ReloadTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

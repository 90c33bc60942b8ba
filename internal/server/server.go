package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/internal/cardinal"
	"github.com/jackzampolin/labrelay/internal/config"
	"github.com/jackzampolin/labrelay/internal/labs"
	"github.com/jackzampolin/labrelay/internal/metrics"
	"github.com/jackzampolin/labrelay/internal/server/endpoints"
	"github.com/jackzampolin/labrelay/internal/svcctx"
)

// Server is the labrelay HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	logger     *slog.Logger
	extractor  *extractorHandle

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to. When Host and Port are both empty
	// and ConfigManager is set, the config's server section is used;
	// otherwise the default is 127.0.0.1.
	Host string
	// Port is the port to listen on (default: 8000)
	Port string
	// ConfigManager provides configuration with hot-reload support.
	// When set, the extraction client is built from it and rebuilt on change.
	ConfigManager *config.Manager
	// Extractor overrides the vendor client built from ConfigManager.
	Extractor svcctx.Extractor
	// Ranges is the reference table (default: labs.DefaultTable())
	Ranges *labs.Table
	// AllowedOrigins lists CORS origins. Ignored when ConfigManager is set.
	AllowedOrigins []string
	// Metrics records processed uploads (default: in-memory, metrics.DefaultCapacity)
	Metrics *metrics.Recorder
	// SwaggerHost overrides the host advertised in /swagger.json
	SwaggerHost string
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Ranges == nil {
		cfg.Ranges = labs.DefaultTable()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewRecorder(metrics.DefaultCapacity)
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		extractor: &extractorHandle{},
	}

	vendorTimeout := cardinal.DefaultTimeout
	addr := ""
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = config.DefaultConfig().CORS.AllowedOrigins
	}

	if cfg.ConfigManager != nil {
		current := cfg.ConfigManager.Get()
		if cfg.Extractor == nil {
			if err := current.Validate(); err != nil {
				return nil, fmt.Errorf("invalid config: %w", err)
			}
			s.extractor.swap(newVendorClient(current), current.VendorTimeout())

			// Watch for config changes
			cfg.ConfigManager.OnChange(s.reloadExtractor)
		}
		if current.Vendor.TimeoutSeconds > 0 {
			vendorTimeout = current.VendorTimeout()
		}
		if len(current.CORS.AllowedOrigins) > 0 {
			origins = current.CORS.AllowedOrigins
		}
		if cfg.Host == "" && cfg.Port == "" {
			addr = current.ListenAddr()
		}
	}
	if cfg.Extractor != nil {
		s.extractor.swap(cfg.Extractor, vendorTimeout)
	}
	if addr == "" {
		if cfg.Host == "" {
			cfg.Host = "127.0.0.1"
		}
		if cfg.Port == "" {
			cfg.Port = "8000"
		}
		addr = net.JoinHostPort(cfg.Host, cfg.Port)
	}

	s.services = &svcctx.Services{
		Extractor: s.extractor,
		Ranges:    cfg.Ranges,
		Logger:    cfg.Logger,
		Metrics:   cfg.Metrics,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerHost: cfg.SwaggerHost}) {
		s.endpointRegistry.Register(ep)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(origins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.extractor.writeTimeout(),
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func newVendorClient(c *config.Config) *cardinal.Client {
	return cardinal.NewClient(cardinal.Config{
		APIKey:  c.ResolvedAPIKey(),
		BaseURL: c.Vendor.BaseURL,
		Timeout: c.VendorTimeout(),
	})
}

// reloadExtractor rebuilds the vendor client after a config file change.
// An invalid config keeps the previous client.
func (s *Server) reloadExtractor(c *config.Config) {
	if err := c.Validate(); err != nil {
		s.logger.Error("ignoring config change", "error", err)
		return
	}
	s.extractor.swap(newVendorClient(c), c.VendorTimeout())
	s.logger.Info("extraction client reloaded from config",
		"base_url", c.Vendor.BaseURL,
		"timeout", c.VendorTimeout(),
	)
}

// Start starts the HTTP server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the full handler chain, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withRequestID tags every request with a fresh identifier, echoed in the
// X-Request-ID response header and forwarded to the vendor.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(endpoints.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(svcctx.WithRequestID(r.Context(), id)))
	})
}

// requireInit is middleware that ensures an extraction client is configured.
// Returns 503 Service Unavailable otherwise. The write deadline follows the
// current vendor timeout, which can change on reload.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.extractor.ready() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"extraction client not configured"}`))
			return
		}
		deadline := time.Now().Add(s.extractor.writeTimeout())
		if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
			s.logger.Debug("could not extend write deadline", "error", err)
		}
		next(w, r)
	}
}

// writeSlack is added to the vendor timeout to bound a whole upload response.
const writeSlack = 30 * time.Second

// extractorHandle lets the vendor client be replaced while requests are
// in flight. A request keeps the client it started with.
type extractorHandle struct {
	mu      sync.RWMutex
	current svcctx.Extractor
	timeout time.Duration
}

var errNoExtractor = errors.New("extraction client not configured")

func (h *extractorHandle) Extract(ctx context.Context, doc cardinal.Document) (*cardinal.Result, error) {
	h.mu.RLock()
	c := h.current
	h.mu.RUnlock()
	if c == nil {
		return nil, errNoExtractor
	}
	return c.Extract(ctx, doc)
}

func (h *extractorHandle) swap(e svcctx.Extractor, timeout time.Duration) {
	h.mu.Lock()
	h.current = e
	h.timeout = timeout
	h.mu.Unlock()
}

// writeTimeout is how long an upload may take to answer under the current
// vendor timeout.
func (h *extractorHandle) writeTimeout() time.Duration {
	h.mu.RLock()
	t := h.timeout
	h.mu.RUnlock()
	if t <= 0 {
		t = cardinal.DefaultTimeout
	}
	return t + writeSlack
}

func (h *extractorHandle) ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current != nil
}

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

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/calls"
	"github.com/mbenito/docueval/internal/config"
	"github.com/mbenito/docueval/internal/editor"
	"github.com/mbenito/docueval/internal/generator"
	"github.com/mbenito/docueval/internal/home"
	"github.com/mbenito/docueval/internal/persist"
	"github.com/mbenito/docueval/internal/providers"
	"github.com/mbenito/docueval/internal/server/endpoints"
	"github.com/mbenito/docueval/internal/store"
	"github.com/mbenito/docueval/internal/svcctx"
)

// Server is the main docueval HTTP server. It owns the provider
// registry, the pending-report store, and the editing sessions, and
// tears them down together on shutdown.
type Server struct {
	httpServer *http.Server
	homeDir    *home.Dir
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 9180)
	Port string
	// Home is the application home directory
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "9180"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}
	if err := cfg.Home.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	// If config manager provided, set up providers and hot reload
	if cfg.ConfigManager != nil {
		registry.Reload(cfg.ConfigManager.Get().ToProviderRegistryConfig())

		// Watch for config changes
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToProviderRegistryConfig())
			cfg.Logger.Info("provider registry reloaded from config")
		})
	}

	s := &Server{
		homeDir:   cfg.Home,
		registry:  registry,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or
// an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	var cfg *config.Config
	if s.configMgr != nil {
		cfg = s.configMgr.Get()
	} else {
		cfg = config.DefaultConfig()
	}

	callStore := calls.NewStore(s.homeDir.CallLogPath())
	recorder := calls.NewRecorder(callStore, s.logger)

	gen := generator.New(generator.Config{
		Client:            &registryClient{registry: s.registry},
		Logger:            s.logger,
		Recorder:          recorder,
		ValidatePDF:       true,
		ValidateResponses: cfg.Defaults.ValidateResponses,
	})

	persistClient := persist.NewClient(persist.Config{
		BaseURL:  cfg.Persist.BaseURL,
		Attempts: cfg.Persist.Attempts,
	})

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Generator: gen,
		Store:     store.New(s.homeDir.PendingPath()),
		Sessions:  editor.NewManager(),
		Registry:  s.registry,
		Persist:   persistClient,
		ConfigMgr: s.configMgr,
		CallStore: callStore,
		Home:      s.homeDir,
		Logger:    s.logger,
	}

	if s.configMgr != nil {
		s.configMgr.WatchConfig()
	}

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

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
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

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until services are wired.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}

// registryClient resolves the default LLM client on every call so that
// config hot reload takes effect without restarting the server.
type registryClient struct {
	registry *providers.Registry
}

var _ providers.LLMClient = (*registryClient)(nil)

func (c *registryClient) GenerateContent(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResult, error) {
	client, err := c.registry.DefaultLLM()
	if err != nil {
		return nil, err
	}
	return client.GenerateContent(ctx, req)
}

func (c *registryClient) Name() string {
	client, err := c.registry.DefaultLLM()
	if err != nil {
		return "unconfigured"
	}
	return client.Name()
}

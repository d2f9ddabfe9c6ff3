// Package api provides the block parsing REST API server.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nirbhay18/gutenberg/core/registry"
	"github.com/nirbhay18/gutenberg/internal/logging"
	"github.com/nirbhay18/gutenberg/internal/server"
)

// Version is the API version reported by the root and health endpoints.
const Version = "0.1.0"

// serverRegistry holds the block type registry used by all handlers.
var serverRegistry *registry.Registry

// Start starts the API server with the given configuration.
func Start(cfg Config) error {
	ServerConfig = cfg

	reg := registry.New()
	if err := registry.RegisterDefaults(reg); err != nil {
		return fmt.Errorf("failed to register default types: %w", err)
	}
	if cfg.TypesDir != "" {
		if err := registry.LoadDir(reg, cfg.TypesDir); err != nil {
			return fmt.Errorf("failed to load type definitions: %w", err)
		}
		logging.Info("type definitions loaded",
			"dir", server.AbsPath(cfg.TypesDir),
			"types", len(reg.Names()))
	}
	serverRegistry = reg

	mux := setupRoutes()

	logging.ServerStartup(fmt.Sprintf(":%d", cfg.Port),
		"types", len(reg.Names()))

	var handler http.Handler = server.SecurityHeadersMiddleware(mux)

	corsConfig := server.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
	}
	handler = server.CORSMiddlewareWithConfig(corsConfig, handler)
	if len(cfg.AllowedOrigins) > 0 {
		logging.Info("cors configured",
			"mode", "restricted",
			"allowed_origins_count", len(cfg.AllowedOrigins))
	} else {
		logging.Warn("cors configured",
			"mode", "permissive",
			"note", "allowing all origins (*) - consider restricting for production")
	}

	handler = logging.CombinedMiddleware(handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return srv.ListenAndServe()
}

// setupRoutes configures all HTTP routes.
func setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/types", handleTypes)
	mux.HandleFunc("/parse", handleParse)
	mux.HandleFunc("/serialize", handleSerialize)
	mux.HandleFunc("/ws", handleWebSocket)

	return mux
}

// Package app contains the application setup for the catalog console.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hdnguyen/catalog-console/internal/catalog"
	"github.com/hdnguyen/catalog-console/internal/config"
	"github.com/hdnguyen/catalog-console/internal/session"
	"github.com/hdnguyen/catalog-console/internal/transport/rest"
	"github.com/hdnguyen/catalog-console/internal/upstream"
	"github.com/hdnguyen/catalog-console/pkg/server"
)

type Dependencies struct {
	Session *session.Session
	Logger  *slog.Logger
}

// SetupDependencies wires the store, the upstream client and the session.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	store := catalog.NewStore()
	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger)
	sess := session.NewSession(store, client, cfg.View, logger)

	return &Dependencies{
		Session: sess,
		Logger:  logger,
	}
}

// SetupHttpHandler initializes the HTTP router and routes for the console.
// Used by tests to set up the handler with the full middleware chain.
func SetupHttpHandler(deps *Dependencies) (http.Handler, error) {
	mux := server.NewChiRouter(deps.Logger)
	if err := wireRoutes(mux, deps); err != nil {
		return nil, err
	}
	return mux, nil
}

// wireRoutes sets up the HTTP routes for the console.
func wireRoutes(mux *chi.Mux, deps *Dependencies) error {
	handler, err := rest.NewHandler(deps.Session, deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to create REST handler: %w", err)
	}
	handler.RegisterRoutes(mux)
	return nil
}

// SetupHttpServer creates and configures the HTTP server for the console.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) (*http.Server, error) {
	mux, err := SetupHttpHandler(deps)
	if err != nil {
		return nil, err
	}

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux), nil
}

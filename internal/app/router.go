// Package app wires handlers, middleware, and the HTTP server.
package app

import (
	"log/slog"
	"net/http"

	"github.com/adimehta/aiportal/internal/auth"
	"github.com/adimehta/aiportal/internal/transport/http/handler"
	"github.com/adimehta/aiportal/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	EnableFrontend bool
	Logger         *slog.Logger
	Gate           *auth.Gate
	GrantCache     *middleware.GrantCache
}

// NewRouter creates and configures the HTTP router with all application
// routes. Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes (no auth)
	mux.HandleFunc("POST /auth", repo.Login)
	mux.HandleFunc("GET /health", repo.Health)

	requireKey := middleware.RequireKey(opts.Gate, opts.GrantCache)

	// AI passthrough routes (require access key)
	mux.Handle("POST /chat", requireKey(http.HandlerFunc(repo.Chat)))
	mux.Handle("POST /completion", requireKey(http.HandlerFunc(repo.Completion)))
	mux.Handle("POST /images/generate", requireKey(http.HandlerFunc(repo.GenerateImage)))
	mux.Handle("POST /embeddings", requireKey(http.HandlerFunc(repo.Embeddings)))
	mux.Handle("GET /models", requireKey(http.HandlerFunc(repo.ListModels)))

	// Usage and logs (require access key)
	mux.Handle("GET /usage", requireKey(http.HandlerFunc(repo.Usage)))
	mux.Handle("GET /logs", requireKey(http.HandlerFunc(repo.Logs)))

	// Unmatched paths get the JSON error envelope. The frontend patterns
	// below are more specific, so they win when enabled.
	mux.HandleFunc("/", repo.NotFound)

	// Frontend routes (if enabled)
	if opts.EnableFrontend {
		registerFrontendRoutes(mux, repo, opts)
	}

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	// Request logging (if logger provided)
	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	// Request ID (always applied)
	h = middleware.RequestID(h)

	// CORS (always applied for frontend compatibility)
	h = middleware.CORS(h)

	return h
}

// registerFrontendRoutes adds the embedded frontend routes. The index page is
// public; a stored key in the browser is validated by OptionalKey so the page
// can adapt without ever being blocked.
func registerFrontendRoutes(mux *http.ServeMux, repo *handler.Repo, opts *RouterOptions) {
	optionalKey := middleware.OptionalKey(opts.Gate)

	mux.Handle("GET /{$}", optionalKey(http.HandlerFunc(repo.Index)))
	mux.Handle("GET /static/", repo.StaticFiles())
}

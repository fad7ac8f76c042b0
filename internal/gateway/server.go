package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public, no auth required.
	r.Get("/health", g.handleHealth())
	r.Get("/metrics", g.metrics.Handler().ServeHTTP)

	// Platform webhooks. The bare root route serves the default source so
	// a platform can be pointed at the gateway base URL directly.
	r.Post("/", g.dispatcher.ServeSource(g.config.DefaultSource))
	r.Post("/webhooks/{source}", g.dispatcher.ServeHTTP)

	// Status endpoint, auth required. Not mounted if no auth configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Get("/status", g.handleStatus())
		})
	}

	return r
}

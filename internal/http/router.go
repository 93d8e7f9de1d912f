// Package httpapi assembles the HTTP surface: middleware chain, health and
// metrics endpoints, and the versioned API routes. Business logic stays in
// the feature handler packages.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritas/internal/platform/middleware"
)

// Registrar mounts a feature's endpoints on a router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all endpoints. Feature handlers register themselves under
// the versioned API prefix.
func NewRouter(handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(api chi.Router) {
		for _, h := range handlers {
			h.Register(api)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Package httptransport assembles the public HTTP surface: domain handlers,
// shared middleware, health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"symposia/pkg/platform/httputil"
)

// Registrar is implemented by every domain handler that mounts routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency. Name appears in the health payload.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter builds the chi router with the shared middleware chain and
// mounts every handler.
func NewRouter(logger *slog.Logger, checks []HealthCheck, handlers ...Registrar) *chi.Mux {
	router := chi.NewRouter()
	router.Use(Recovery(logger))
	router.Use(RequestID)
	router.Use(Actor)
	router.Use(RequestTime)
	router.Use(RequestLogger(logger))

	router.Get("/healthz", healthHandler(checks))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, handler := range handlers {
		handler.Register(router)
	}
	return router
}

// healthHandler reports each dependency. Any failing check turns the
// response into a 503 so load balancers rotate the instance out.
func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				results[check.Name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[check.Name] = "ok"
		}

		body := map[string]any{"status": "ok", "checks": results}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		httputil.WriteJSON(w, status, body)
	}
}

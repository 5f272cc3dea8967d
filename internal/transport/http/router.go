// Package httptransport assembles the chi router from the per-module
// handlers. Handlers own their routes; this package owns the shared
// middleware stack and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orbit/internal/platform/middleware"
	"orbit/pkg/platform/httputil"
)

// Registrar is anything that mounts routes on the router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the middleware stack and all module routes.
func NewRouter(logger *slog.Logger, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestMeta)
	r.Use(middleware.Logger(logger))

	for _, m := range modules {
		m.Register(r)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

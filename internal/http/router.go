// Package httpapi wires all public endpoints onto the chi router.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartbin/internal/dashboard"
	"smartbin/internal/platform/middleware"
	reporthandler "smartbin/internal/report/handler"
	resolutionhandler "smartbin/internal/resolution/handler"
	userhandler "smartbin/internal/user/handler"
	"smartbin/pkg/httputil"
)

// Deps collects everything the router mounts.
type Deps struct {
	Reports    *reporthandler.Handler
	Resolution *resolutionhandler.Handler
	Users      *userhandler.Handler
	Dashboard  *dashboard.Handler

	JWTSigningKey string
	Logger        *slog.Logger
	Health        func(r *http.Request) error
}

// NewRouter builds the full route tree: public auth, authenticated citizen
// surfaces, and admin-gated resolution and reporting surfaces.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(req); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Users.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.JWTSigningKey, deps.Logger))

		deps.Reports.Register(r)
		deps.Users.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			deps.Resolution.Register(r)
			deps.Dashboard.Register(r)
		})
	})

	return r
}

// Package httptransport assembles the gateway's HTTP surface: the
// middleware stack, the public auth and health endpoints, and the
// token-guarded admin routes every resource handler mounts into.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mercato/internal/auth"
	"mercato/internal/buyer"
	"mercato/internal/dashboard"
	"mercato/internal/order"
	"mercato/internal/platform/config"
	"mercato/internal/platform/health"
	"mercato/internal/platform/metrics"
	"mercato/internal/platform/middleware"
	"mercato/internal/product"
)

// Registrar is anything that mounts routes on the router. Every feature
// handler satisfies it.
type Registrar interface {
	Register(r chi.Router)
}

// Deps are the wired services the router needs.
type Deps struct {
	Config    config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Auth      *auth.Service
	Health    *health.Handler
	AuthH     *auth.Handler
	Buyers    *buyer.Handler
	Products  *product.Handler
	Orders    *order.Handler
	Sliders   Registrar
	SubCats   Registrar
	Dashboard *dashboard.Handler
}

// NewRouter wires all endpoints with the middleware stack. Admin routes sit
// behind the static token or a session JWT; health, metrics, and login stay
// open.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.Logger, d.Metrics))
	r.Use(middleware.Timeout(d.Config.UpstreamTimeout * 2))
	r.Use(middleware.BodyLimit(d.Config.BodyLimitBytes))

	d.Health.Register(r)
	d.AuthH.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(d.Config.AdminToken, d.Auth, d.Logger, func() {
			if d.Metrics != nil {
				d.Metrics.AuthFailures.Inc()
			}
		}))

		d.Buyers.Register(r)
		d.Products.Register(r)
		d.Orders.Register(r)
		d.Sliders.Register(r)
		d.SubCats.Register(r)
		d.Dashboard.Register(r)
	})

	return r
}

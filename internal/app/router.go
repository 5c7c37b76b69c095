package app

import (
	"linkdash/internal/config"
	"linkdash/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// InitMiddleware - initializes middleware handlers for the router.
func InitMiddleware(r *chi.Mux, conf *config.Config, ctrl *handlers.Controller) {
	r.Use(ctrl.PanicRecoveryMiddleware)
	r.Use(middleware.RealIP)
	if timeout := conf.RequestTimeout(); timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}
	r.Use(ctrl.LoggingMiddleware)
	r.Use(middleware.Compress(5, "text/html"))
	r.Mount("/debug", middleware.Profiler())
}

// Routing - registers the dashboard routes.
// Registered routes:
//   - GET "/ping": liveness check, no session.
//   - GET "/": redirect to the form page.
//   - GET, POST "/shorten": form page and form submission.
//   - POST "/shorten/entries", "/shorten/entries/{id}/delete": add and remove form entries.
//   - POST "/shorten/bulk", "/shorten/results/clear": bulk mode toggle and results reset.
//   - GET "/stats": URL list with click history.
//   - POST "/stats/refresh", "/stats/auto-refresh": manual refresh and the polling switch.
//   - POST "/stats/{shortcode}/expand", "/stats/{shortcode}/delete": click history toggle and deletion.
//   - GET "/stats/{shortcode}", "/stats/{shortcode}/qr.png": detail view and its QR code.
func Routing(r *chi.Mux, ctrl *handlers.Controller) {
	r.Get("/ping", ctrl.PingHandler())

	r.Group(func(r chi.Router) {
		r.Use(ctrl.Session)

		r.Get("/", ctrl.Index())

		r.Route("/shorten", func(r chi.Router) {
			r.Get("/", ctrl.ShortenPage())
			r.Post("/", ctrl.ShortenURLs())
			r.Post("/entries", ctrl.AddEntry())
			r.Post("/entries/{id}/delete", ctrl.RemoveEntry())
			r.Post("/bulk", ctrl.ToggleBulkMode())
			r.Post("/results/clear", ctrl.ClearResults())
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", ctrl.StatsPage())
			r.Post("/refresh", ctrl.RefreshStats())
			r.Post("/auto-refresh", ctrl.SetAutoRefresh())
			r.Get("/{shortcode}", ctrl.URLDetail())
			r.Get("/{shortcode}/qr.png", ctrl.QRCode())
			r.Post("/{shortcode}/expand", ctrl.ToggleExpanded())
			r.Post("/{shortcode}/delete", ctrl.DeleteURL())
		})
	})
}

// NewRouter builds the dashboard router.
func NewRouter(conf *config.Config, ctrl *handlers.Controller) *chi.Mux {
	r := chi.NewRouter()
	InitMiddleware(r, conf, ctrl)
	Routing(r, ctrl)
	return r
}

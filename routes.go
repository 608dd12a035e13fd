package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes builds the HTTP handler. Form actions sit outside the signer guard
// so they can answer with a toast on any page. Pages sit inside it.
func (a *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLoggingMiddleware(a.cfg.TrustedProxyCount))
	r.Use(securityHeaders)
	r.Use(limitBody(maxBodySize))

	r.Get("/health", healthHandler)
	r.Get("/metrics", a.metricsHandler)
	fs := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fs))

	r.Group(func(r chi.Router) {
		r.Use(a.sessionMiddleware)

		r.Post("/theme", a.themeHandler)
		r.Post("/wallet/connect", a.walletConnectHandler)
		r.Post("/wallet/disconnect", a.walletDisconnectHandler)
		r.Post("/react", a.reactHandler)
		r.Post("/mirror", a.mirrorHandler)
		r.Post("/logout", a.logoutHandler)

		r.Group(func(r chi.Router) {
			r.Use(a.signerGuard)

			r.Get("/", a.homeHandler)
			r.Get("/dashboard", a.dashboardHandler)
			r.Get("/wave/{handle}", a.waveHandler)
			r.Get("/post/{id}", a.postHandler)
			r.Get("/wallet", a.walletHandler)
			r.Get("/notifications", a.notificationsHandler)
			r.Get("/why", a.whyHandler)
			r.Get("/login", a.loginHandler)
			r.Post("/login", a.loginSubmitHandler)
		})
	})

	return r
}

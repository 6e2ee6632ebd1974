package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/mw"
)

func init() { Register(registerBugs, noStore) }

func registerBugs(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.RateLimitBurst,
		PerMinute:  d.RateLimitPerMin,
		MaxEntries: 10000,
		TrustProxy: d.TrustProxy,
		Now:        d.TimeNow,
	})

	r.Route("/api/bugs", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.ListBugs(d))
		r.With(limit).Post("/", handlers.CreateBug(d))

		r.Get("/{id}", handlers.GetBug(d))
		r.With(limit).Patch("/{id}", handlers.UpdateBug(d))
		r.With(limit).Delete("/{id}", handlers.DeleteBug(d))
	})
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

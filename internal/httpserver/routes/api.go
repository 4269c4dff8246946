package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/handlers"
	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/mw"
)

func init() { Register("api", registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		api.Post("/offers/metrics", handlers.OfferMetrics(d))
		api.Post("/earnings/estimate", handlers.EstimateEarnings(d))
		api.Get("/origins", handlers.Origins(d))
		api.Get("/routes", handlers.Routes(d))
		api.Get("/runs", handlers.ListRuns(d))
		api.Get("/runs/{id}", handlers.GetRun(d))
		api.Get("/stats", handlers.Stats(d))

		api.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.SearchRateBurst,
			RefillPerIPPerMin: d.SearchRatePerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
		})).Get("/search", handlers.Search(d))
	})
}

package handlers

import (
	"net/http"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	redisstore "github.com/mic325hkg/CathayPriceChecker/internal/store/redis"
)

const defaultStatsTop = 10

type statsResponse struct {
	Routes  []redisstore.RouteCount  `json:"routes"`
	Origins []redisstore.OriginCount `json:"origins"`
}

// Stats returns the most searched routes and the alternate origins that
// produced the most ranked offers.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Stats == nil {
			writeError(w, d, http.StatusServiceUnavailable, "search statistics are not configured")
			return
		}
		n, err := queryInt(r, "top", defaultStatsTop)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		routes, err := d.Stats.TopRoutes(r.Context(), n)
		if err != nil {
			d.Logger.Error("failed to read route stats", logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "failed to read stats")
			return
		}
		origins, err := d.Stats.TopOrigins(r.Context(), n)
		if err != nil {
			d.Logger.Error("failed to read origin stats", logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "failed to read stats")
			return
		}
		writeJSON(w, d, http.StatusOK, statsResponse{Routes: routes, Origins: origins})
	}
}

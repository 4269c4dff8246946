package handlers

import (
	"net/http"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

type reloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload triggers a manual reload of the earning table
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual earning table reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d, http.StatusAccepted, reloadResponse{
				Triggered: true,
				Message:   "reload triggered",
			})
		default:
			d.Logger.Warn("earning table reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d, http.StatusTooManyRequests, reloadResponse{
				Message: "reload already pending, please wait",
			})
		}
	}
}

type flushResponse struct {
	Deleted int `json:"deleted"`
}

// FlushOffers empties the provider response cache so the next searches hit
// the provider again.
func FlushOffers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.OfferCache == nil {
			writeError(w, d, http.StatusServiceUnavailable, "offer cache is not configured")
			return
		}
		n, err := d.OfferCache.FlushOffers(r.Context())
		if err != nil {
			d.Logger.Error("failed to flush offer cache",
				logger.Int("deleted", n),
				logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "failed to flush offer cache")
			return
		}
		d.Logger.Info("offer cache flushed via endpoint",
			logger.Int("deleted", n),
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, d, http.StatusOK, flushResponse{Deleted: n})
	}
}

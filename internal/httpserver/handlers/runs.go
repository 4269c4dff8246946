package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/store/postgres"
)

const historyDisabled = "run history is not configured"

// ListRuns lists stored search runs, newest first.
func ListRuns(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.History == nil {
			writeError(w, d, http.StatusServiceUnavailable, historyDisabled)
			return
		}
		limit, err := queryInt(r, "limit", 0)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		runs, err := d.History.ListRuns(r.Context(), postgres.ListFilter{
			Hub:         strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("hub"))),
			Destination: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("dest"))),
			Limit:       limit,
		})
		if err != nil {
			d.Logger.Error("failed to list runs", logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "failed to list runs")
			return
		}
		writeJSON(w, d, http.StatusOK, runs)
	}
}

// GetRun returns one stored run in the same shape /api/search produced.
func GetRun(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.History == nil {
			writeError(w, d, http.StatusServiceUnavailable, historyDisabled)
			return
		}
		id := chi.URLParam(r, "id")
		rec, err := d.History.GetRun(r.Context(), id)
		switch {
		case err == nil:
			writeJSON(w, d, http.StatusOK, rec.Result())
		case errors.Is(err, postgres.ErrRunNotFound):
			writeError(w, d, http.StatusNotFound, "run not found")
		default:
			d.Logger.Error("failed to load run", logger.String("id", id), logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "failed to load run")
		}
	}
}

package handlers

import (
	"net/http"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready          bool `json:"ready"`
	AirportsLoaded int  `json:"airports_loaded"`
}

// Readyz reports ready once the airport table is loaded. The earning table
// may be empty; estimates are then absent, not failing.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := d.Tables.AirportCount()
		status := http.StatusOK
		if n == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, d, status, readyzResponse{Ready: n > 0, AirportsLoaded: n})
	}
}

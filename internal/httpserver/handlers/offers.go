package handlers

import (
	"net/http"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
)

type offerMetricsRequest struct {
	Offer    domain.RawOffer `json:"offer"`
	FareType string          `json:"fare_type"`
	Currency string          `json:"currency"`
}

type estimateRequest struct {
	Segments []domain.Segment `json:"segments"`
	FareType string           `json:"fare_type"`
}

type estimateResponse struct {
	FareType            domain.FareType        `json:"fare_type"`
	EarningTableVersion *string                `json:"earning_table_version"`
	Estimate            domain.EarningEstimate `json:"estimate"`
}

func enricher(d deps.Deps, fareType, currency string) domain.Enricher {
	snap := d.Tables.Snapshot()
	if currency == "" {
		currency = d.Currency
	}
	return domain.Enricher{
		Airports:         snap.Airports,
		Zones:            snap.Zones,
		Table:            snap.Earnings,
		PreferredCarrier: d.PreferredCarrier,
		FareOverride:     fareType,
		DefaultCurrency:  currency,
	}
}

// OfferMetrics enriches one provider offer: distances, zones, durations and
// the reward estimate.
func OfferMetrics(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req offerMetricsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, d, http.StatusOK, enricher(d, req.FareType, req.Currency).Enrich(req.Offer))
	}
}

// EstimateEarnings prices already-classified segments against the current table.
func EstimateEarnings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req estimateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		table := d.Tables.Earnings()
		fare := domain.ParseFareType(req.FareType)
		var version *string
		if v := table.VersionString(); v != "" {
			version = &v
		}
		writeJSON(w, d, http.StatusOK, estimateResponse{
			FareType:            fare,
			EarningTableVersion: version,
			Estimate:            domain.Estimate(req.Segments, table, fare),
		})
	}
}

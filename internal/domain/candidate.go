package domain

import (
	"math"
	"strconv"
	"strings"
)

// Routing classifies how a candidate reaches the destination.
type Routing string

const (
	RoutingDirect Routing = "DIRECT_HUB_DEST"
	RoutingViaHub Routing = "ALT_ORIGIN_VIA_HUB"
)

// FareAuto asks the enricher to infer the fare type from the offer.
const FareAuto = "AUTO"

// EnrichedCandidate is an offer with its computed metrics and reward estimate.
type EnrichedCandidate struct {
	OfferID       string          `json:"offer_id"`
	Routing       Routing         `json:"routing,omitempty"`
	AltOrigin     string          `json:"alt_origin,omitempty"`
	Hub           string          `json:"hub,omitempty"`
	PriceAmount   string          `json:"price_amount"`
	Currency      string          `json:"currency"`
	TotalMinutes  int             `json:"total_minutes"`
	TotalDuration string          `json:"total_duration"`
	TotalMiles    float64         `json:"total_miles_est"`
	Stops         int             `json:"stops"`
	SingleCarrier bool            `json:"single_carrier"`
	FareType      FareType        `json:"fare_type"`
	Earnings      EarningEstimate `json:"earnings"`
	// Nil when no segment matched a rule.
	EstimatedStatusPoints *int        `json:"estimated_status_points"`
	EstimatedMiles        *int        `json:"estimated_miles"`
	EarningTableVersion   *string     `json:"earning_table_version"`
	Itineraries           []Itinerary `json:"itineraries"`
	Raw                   RawOffer    `json:"raw_offer"`
}

// Enricher turns raw offers into candidates. Its tables are read-only.
type Enricher struct {
	Airports         AirportTable
	Zones            ZoneClassifier
	Table            *EarningTable
	PreferredCarrier string
	// FareOverride is AUTO (or empty) to infer per offer, otherwise a fixed tier.
	FareOverride    string
	DefaultCurrency string
}

// Enrich computes metrics and the reward estimate for offer.
func (e Enricher) Enrich(offer RawOffer) EnrichedCandidate {
	m := ComputeOfferMetrics(offer, e.Airports, e.Zones)
	fare := e.fareType(offer)

	var version *string
	if e.Table != nil && e.Table.Version != nil {
		v := *e.Table.Version
		version = &v
	}

	currency := offer.Price.Currency
	if currency == "" {
		currency = e.DefaultCurrency
	}

	est := Estimate(m.Segments(), e.Table, fare)
	var statusPoints, miles *int
	if est.HasAny() {
		sp, am := est.StatusPoints, est.Miles
		statusPoints, miles = &sp, &am
	}

	return EnrichedCandidate{
		OfferID:               offer.ID,
		PriceAmount:           offer.Price.DisplayPrice(),
		Currency:              currency,
		TotalMinutes:          m.TotalMinutes,
		TotalDuration:         FormatMinutes(m.TotalMinutes),
		TotalMiles:            m.TotalMiles,
		Stops:                 StopCount(offer),
		SingleCarrier:         IsSingleCarrier(offer, e.PreferredCarrier),
		FareType:              fare,
		Earnings:              est,
		EstimatedStatusPoints: statusPoints,
		EstimatedMiles:        miles,
		EarningTableVersion:   version,
		Itineraries:           m.Itineraries,
		Raw:                   offer,
	}
}

func (e Enricher) fareType(offer RawOffer) FareType {
	override := strings.ToUpper(strings.TrimSpace(e.FareOverride))
	if override == "" || override == FareAuto {
		return InferFareType(offer)
	}
	return ParseFareType(override)
}

// ParsePrice reads the offer's display price as a number. NaN and infinities
// count as unpriced.
func ParsePrice(p RawPrice) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.DisplayPrice()), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

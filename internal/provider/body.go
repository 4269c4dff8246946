package provider

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
)

// MultiCityBody is the POST payload of a multi-city flight-offers search.
type MultiCityBody struct {
	CurrencyCode       string              `json:"currencyCode,omitempty"`
	OriginDestinations []OriginDestination `json:"originDestinations"`
	Travelers          []Traveler          `json:"travelers"`
	Sources            []string            `json:"sources"`
	SearchCriteria     SearchCriteria      `json:"searchCriteria"`
}

type OriginDestination struct {
	ID                      string        `json:"id"`
	OriginLocationCode      string        `json:"originLocationCode"`
	DestinationLocationCode string        `json:"destinationLocationCode"`
	DepartureDateTimeRange  DateTimeRange `json:"departureDateTimeRange"`
}

type DateTimeRange struct {
	Date string `json:"date"`
}

type Traveler struct {
	ID           string `json:"id"`
	TravelerType string `json:"travelerType"`
}

type SearchCriteria struct {
	MaxFlightOffers int            `json:"maxFlightOffers"`
	FlightFilters   *FlightFilters `json:"flightFilters,omitempty"`
}

type FlightFilters struct {
	CabinRestrictions []CabinRestriction `json:"cabinRestrictions"`
}

type CabinRestriction struct {
	Cabin                string   `json:"cabin"`
	Coverage             string   `json:"coverage"`
	OriginDestinationIDs []string `json:"originDestinationIds"`
}

// BuildMultiCityBody maps req onto the provider payload. Legs are numbered
// from 1 in order; a cabin other than ANY restricts every leg.
func BuildMultiCityBody(req MultiCityRequest) MultiCityBody {
	adults := req.Adults
	if adults < 1 {
		adults = 1
	}
	max := req.Max
	if max < 1 {
		max = 1
	}

	body := MultiCityBody{
		CurrencyCode:       strings.ToUpper(req.Currency),
		OriginDestinations: make([]OriginDestination, 0, len(req.Legs)),
		Travelers:          make([]Traveler, 0, adults),
		Sources:            []string{"GDS"},
		SearchCriteria:     SearchCriteria{MaxFlightOffers: max},
	}

	ids := make([]string, 0, len(req.Legs))
	for i, leg := range req.Legs {
		id := strconv.Itoa(i + 1)
		ids = append(ids, id)
		body.OriginDestinations = append(body.OriginDestinations, OriginDestination{
			ID:                      id,
			OriginLocationCode:      strings.ToUpper(leg.Origin),
			DestinationLocationCode: strings.ToUpper(leg.Destination),
			DepartureDateTimeRange:  DateTimeRange{Date: leg.DateString()},
		})
	}
	for i := 0; i < adults; i++ {
		body.Travelers = append(body.Travelers, Traveler{ID: strconv.Itoa(i + 1), TravelerType: "ADULT"})
	}

	if cabin := normalizeCabin(req.Cabin); cabin != CabinAny {
		body.SearchCriteria.FlightFilters = &FlightFilters{
			CabinRestrictions: []CabinRestriction{{
				Cabin:                cabin,
				Coverage:             "MOST_SEGMENTS",
				OriginDestinationIDs: ids,
			}},
		}
	}
	return body
}

// SearchQuery encodes a round-trip search as GET query parameters.
func SearchQuery(req SearchRequest) url.Values {
	q := url.Values{}
	q.Set("originLocationCode", strings.ToUpper(req.Origin))
	q.Set("destinationLocationCode", strings.ToUpper(req.Destination))
	q.Set("departureDate", req.DepartureDate.Format(domain.DateLayout))
	if req.ReturnDate != nil {
		q.Set("returnDate", req.ReturnDate.Format(domain.DateLayout))
	}

	adults := req.Adults
	if adults < 1 {
		adults = 1
	}
	q.Set("adults", strconv.Itoa(adults))

	if req.Currency != "" {
		q.Set("currencyCode", strings.ToUpper(req.Currency))
	}
	if req.Max > 0 {
		q.Set("max", strconv.Itoa(req.Max))
	}
	if cabin := normalizeCabin(req.Cabin); cabin != CabinAny {
		q.Set("travelClass", cabin)
	}
	if req.NonStop {
		q.Set("nonStop", "true")
	}
	return q
}

package domain

// The Raw* types mirror the provider's flight-offer JSON. Optional fields
// that the engine must tell apart from empty values are pointers.

// RawOffer is one priced flight offer as returned by the provider.
type RawOffer struct {
	ID                     string               `json:"id"`
	Source                 string               `json:"source,omitempty"`
	Itineraries            []RawItinerary       `json:"itineraries"`
	Price                  RawPrice             `json:"price"`
	ValidatingAirlineCodes []string             `json:"validatingAirlineCodes,omitempty"`
	TravelerPricings       []RawTravelerPricing `json:"travelerPricings,omitempty"`
}

// RawItinerary is one direction of travel.
type RawItinerary struct {
	Duration string       `json:"duration,omitempty"`
	Segments []RawSegment `json:"segments"`
}

// RawSegment is one flown leg.
type RawSegment struct {
	ID          string       `json:"id,omitempty"`
	Departure   RawEndpoint  `json:"departure"`
	Arrival     RawEndpoint  `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Aircraft    *RawAircraft `json:"aircraft,omitempty"`
	Duration    string       `json:"duration,omitempty"`
}

// RawEndpoint is a departure or arrival point.
type RawEndpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at,omitempty"`
}

// RawAircraft carries the equipment code.
type RawAircraft struct {
	Code string `json:"code"`
}

// RawPrice is the offer price. Amounts are decimal strings.
type RawPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total,omitempty"`
	Base       string `json:"base,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// RawTravelerPricing holds the per-traveler fare breakdown.
type RawTravelerPricing struct {
	TravelerID           string          `json:"travelerId,omitempty"`
	FareOption           string          `json:"fareOption,omitempty"`
	TravelerType         string          `json:"travelerType,omitempty"`
	FareDetailsBySegment []RawFareDetail `json:"fareDetailsBySegment,omitempty"`
}

// RawFareDetail is the fare detail for one segment.
type RawFareDetail struct {
	SegmentID      string  `json:"segmentId"`
	Cabin          *string `json:"cabin,omitempty"`
	TravelClass    *string `json:"travelClass,omitempty"`
	FareBasis      string  `json:"fareBasis,omitempty"`
	BrandedFare    *string `json:"brandedFare,omitempty"`
	FareFamilyName *string `json:"fareFamilyName,omitempty"`
	Class          *string `json:"class,omitempty"`
}

// DisplayPrice is the amount shown to users: grandTotal, else total.
func (p RawPrice) DisplayPrice() string {
	if p.GrandTotal != "" {
		return p.GrandTotal
	}
	return p.Total
}

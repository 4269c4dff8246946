package domain

import "strings"

// UnknownBookingClass stands in for a segment without fare detail.
const UnknownBookingClass = "?"

// Segment is one flown leg after enrichment. DistanceMiles is nil when either
// endpoint is missing from the airport table.
type Segment struct {
	ID              string   `json:"segment_id"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	DepartAt        string   `json:"dep_at"`
	ArriveAt        string   `json:"arr_at"`
	Carrier         string   `json:"carrier"`
	Flight          string   `json:"flight"`
	Aircraft        string   `json:"aircraft,omitempty"`
	DurationMinutes int      `json:"duration_min"`
	DistanceMiles   *float64 `json:"distance_mi"`
	Zone            Zone     `json:"zone"`
	ShortType       *string  `json:"short_type"`
	BookingClass    string   `json:"booking_class"`
	Cabin           Cabin    `json:"cabin"`
	OriginCountry   string   `json:"origin_country,omitempty"`
	DestCountry     string   `json:"dest_country,omitempty"`
}

// Itinerary is one direction of travel. DurationMinutes is the provider's
// figure for the whole direction, not a sum over segments.
type Itinerary struct {
	DurationMinutes int       `json:"duration_min"`
	Segments        []Segment `json:"segments"`
}

// OfferMetrics is the computed view of one raw offer.
type OfferMetrics struct {
	TotalMinutes int         `json:"total_minutes"`
	TotalMiles   float64     `json:"total_miles_est"`
	Itineraries  []Itinerary `json:"itineraries"`
}

// Segments flattens the itineraries in order.
func (m OfferMetrics) Segments() []Segment {
	n := 0
	for _, it := range m.Itineraries {
		n += len(it.Segments)
	}
	out := make([]Segment, 0, n)
	for _, it := range m.Itineraries {
		out = append(out, it.Segments...)
	}
	return out
}

type fareDetail struct {
	bookingClass string
	travelClass  string
}

// ComputeOfferMetrics resolves durations, distances and zones for offer.
// Unknown airports leave that segment's distance nil and its zone UNKNOWN and
// add nothing to TotalMiles.
func ComputeOfferMetrics(offer RawOffer, airports AirportTable, zones ZoneClassifier) OfferMetrics {
	details := fareDetailsBySegment(offer)

	m := OfferMetrics{Itineraries: make([]Itinerary, 0, len(offer.Itineraries))}
	for _, raw := range offer.Itineraries {
		it := Itinerary{
			DurationMinutes: ParseISODuration(raw.Duration),
			Segments:        make([]Segment, 0, len(raw.Segments)),
		}
		m.TotalMinutes += it.DurationMinutes

		for _, rs := range raw.Segments {
			seg := buildSegment(rs, details[rs.ID], airports, zones)
			if seg.DistanceMiles != nil {
				m.TotalMiles += *seg.DistanceMiles
			}
			it.Segments = append(it.Segments, seg)
		}
		m.Itineraries = append(m.Itineraries, it)
	}
	return m
}

func buildSegment(rs RawSegment, fd fareDetail, airports AirportTable, zones ZoneClassifier) Segment {
	seg := Segment{
		ID:              rs.ID,
		From:            rs.Departure.IATACode,
		To:              rs.Arrival.IATACode,
		DepartAt:        rs.Departure.At,
		ArriveAt:        rs.Arrival.At,
		Carrier:         strings.ToUpper(rs.CarrierCode),
		Flight:          rs.CarrierCode + rs.Number,
		DurationMinutes: ParseISODuration(rs.Duration),
		Zone:            ZoneUnknown,
		BookingClass:    fd.bookingClass,
		Cabin:           InferCabin(fd.travelClass),
	}
	if rs.Aircraft != nil {
		seg.Aircraft = rs.Aircraft.Code
	}
	if seg.BookingClass == "" {
		seg.BookingClass = UnknownBookingClass
	}

	if airports == nil {
		return seg
	}
	orig, okO := airports.Lookup(seg.From)
	dest, okD := airports.Lookup(seg.To)
	if !okO || !okD {
		return seg
	}

	miles := HaversineMiles(orig.Lat, orig.Lon, dest.Lat, dest.Lon)
	seg.DistanceMiles = &miles
	seg.OriginCountry = orig.Country
	seg.DestCountry = dest.Country
	seg.Zone, seg.ShortType = zones.Classify(miles, orig.Country, dest.Country)
	return seg
}

// fareDetailsBySegment indexes booking class and travel class by segment id
// across all traveler pricings. Later travelers overwrite earlier ones.
func fareDetailsBySegment(offer RawOffer) map[string]fareDetail {
	out := make(map[string]fareDetail)
	for _, tp := range offer.TravelerPricings {
		for _, fd := range tp.FareDetailsBySegment {
			if fd.SegmentID == "" {
				continue
			}
			out[fd.SegmentID] = fareDetail{
				bookingClass: strings.ToUpper(deref(fd.Class)),
				travelClass:  firstNonEmpty(deref(fd.Cabin), deref(fd.TravelClass)),
			}
		}
	}
	return out
}

// InferCabin restricts a provider travel class to the known cabins.
func InferCabin(travelClass string) Cabin {
	switch c := Cabin(strings.ToUpper(strings.TrimSpace(travelClass))); c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return c
	default:
		return CabinUnknown
	}
}

// fareBrandPriority is checked per segment in this order.
var fareBrandPriority = []FareType{FareFlex, FareEssential, FareLight}

// InferFareType scans fare-brand text segment by segment; the first segment
// whose brand contains FLEX, ESSENTIAL or LIGHT (checked in that order) decides.
func InferFareType(offer RawOffer) FareType {
	for _, tp := range offer.TravelerPricings {
		for _, fd := range tp.FareDetailsBySegment {
			brand := strings.ToUpper(firstNonEmpty(deref(fd.BrandedFare), deref(fd.FareFamilyName)))
			if brand == "" {
				continue
			}
			for _, ft := range fareBrandPriority {
				if strings.Contains(brand, string(ft)) {
					return ft
				}
			}
		}
	}
	return FareUnknown
}

// IsSingleCarrier reports whether every segment is flown by carrier.
func IsSingleCarrier(offer RawOffer, carrier string) bool {
	for _, it := range offer.Itineraries {
		for _, seg := range it.Segments {
			if !strings.EqualFold(seg.CarrierCode, carrier) {
				return false
			}
		}
	}
	return true
}

// StopCount sums the connections of every itinerary.
func StopCount(offer RawOffer) int {
	stops := 0
	for _, it := range offer.Itineraries {
		if n := len(it.Segments) - 1; n > 0 {
			stops += n
		}
	}
	return stops
}

// IsRoundTripNonStop reports whether the first two itineraries are each a
// single segment.
func IsRoundTripNonStop(offer RawOffer) bool {
	if len(offer.Itineraries) < 2 {
		return false
	}
	return len(offer.Itineraries[0].Segments) == 1 && len(offer.Itineraries[1].Segments) == 1
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

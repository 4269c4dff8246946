package domain

func strp(s string) *string { return &s }

func testAirports() Airports {
	return NewAirports([]AirportRecord{
		{Code: "HKG", Lat: 22.308, Lon: 113.9185, Country: "HK"},
		{Code: "NRT", Lat: 35.772, Lon: 140.3929, Country: "JP"},
		{Code: "LHR", Lat: 51.47, Lon: -0.4543, Country: "GB"},
		{Code: "PEK", Lat: 40.0799, Lon: 116.6031, Country: "CN"},
		{Code: "CGK", Lat: -6.1256, Lon: 106.6559, Country: "ID"},
	})
}

func seg(id, from, to, carrier, duration string) RawSegment {
	return RawSegment{
		ID:          id,
		Departure:   RawEndpoint{IATACode: from, At: "2026-03-10T10:00:00"},
		Arrival:     RawEndpoint{IATACode: to, At: "2026-03-10T15:00:00"},
		CarrierCode: carrier,
		Number:      "500",
		Duration:    duration,
	}
}

func fare(segmentID, cabin, class, brand string) RawFareDetail {
	fd := RawFareDetail{SegmentID: segmentID, Cabin: strp(cabin), Class: strp(class)}
	if brand != "" {
		fd.BrandedFare = strp(brand)
	}
	return fd
}

// hkgNrtRoundTrip is a non-stop CX round trip in economy class Y.
func hkgNrtRoundTrip(id, price string) RawOffer {
	return RawOffer{
		ID: id,
		Itineraries: []RawItinerary{
			{Duration: "PT4H30M", Segments: []RawSegment{seg("1", "HKG", "NRT", "CX", "PT4H30M")}},
			{Duration: "PT5H", Segments: []RawSegment{seg("2", "NRT", "HKG", "CX", "PT5H")}},
		},
		Price: RawPrice{Currency: "HKD", Total: price, GrandTotal: price},
		TravelerPricings: []RawTravelerPricing{{
			TravelerID: "1",
			FareDetailsBySegment: []RawFareDetail{
				fare("1", "ECONOMY", "y", ""),
				fare("2", "ECONOMY", "Y", ""),
			},
		}},
	}
}

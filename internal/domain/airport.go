package domain

import "strings"

// AirportRecord is one row of the static airport reference table.
type AirportRecord struct {
	Code    string  `json:"code"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// AirportTable resolves IATA codes to reference records.
type AirportTable interface {
	Lookup(code string) (AirportRecord, bool)
}

// Airports is a read-only AirportTable keyed by upper-case IATA code.
type Airports map[string]AirportRecord

// NewAirports indexes records by code. Later duplicates overwrite earlier ones.
func NewAirports(records []AirportRecord) Airports {
	a := make(Airports, len(records))
	for _, r := range records {
		r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
		if r.Code == "" {
			continue
		}
		a[r.Code] = r
	}
	return a
}

// Lookup returns the record for code. Unknown codes report false.
func (a Airports) Lookup(code string) (AirportRecord, bool) {
	r, ok := a[strings.ToUpper(code)]
	return r, ok
}

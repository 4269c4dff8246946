package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the provider's calendar date format.
const DateLayout = "2006-01-02"

// Date offsets applied to the feeder legs relative to the hub legs.
var (
	FeederDayOffsets       = []int{-1, 0}
	ReturnFeederDayOffsets = []int{0, 1}
)

// Leg is one dated origin/destination pair of a multi-city search.
type Leg struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Date        time.Time `json:"-"`
}

// DateString formats the leg date for the provider.
func (l Leg) DateString() string {
	return l.Date.Format(DateLayout)
}

// RouteCandidate is a synthesized 4-leg routing through a mandatory hub:
// alt origin -> hub -> destination -> hub -> alt origin.
type RouteCandidate struct {
	AltOrigin          string
	Hub                string
	Destination        string
	Depart             time.Time
	Return             time.Time
	FeederOffset       int
	ReturnFeederOffset int
}

// Legs returns the four dated legs in travel order.
func (r RouteCandidate) Legs() []Leg {
	return []Leg{
		{Origin: r.AltOrigin, Destination: r.Hub, Date: r.Depart.AddDate(0, 0, r.FeederOffset)},
		{Origin: r.Hub, Destination: r.Destination, Date: r.Depart},
		{Origin: r.Destination, Destination: r.Hub, Date: r.Return},
		{Origin: r.Hub, Destination: r.AltOrigin, Date: r.Return.AddDate(0, 0, r.ReturnFeederOffset)},
	}
}

// Key identifies the candidate for logs and cache keys.
func (r RouteCandidate) Key() string {
	parts := make([]string, 0, 4)
	for _, l := range r.Legs() {
		parts = append(parts, fmt.Sprintf("%s-%s@%s", l.Origin, l.Destination, l.DateString()))
	}
	return strings.Join(parts, ",")
}

// BuildViaHubRoutes produces every feeder/return-feeder offset combination for
// altOrigin. The hub legs keep the depart and return dates. No filtering is
// applied here.
func BuildViaHubRoutes(altOrigin, hub, dest string, depart, ret time.Time) []RouteCandidate {
	altOrigin = strings.ToUpper(altOrigin)
	hub = strings.ToUpper(hub)
	dest = strings.ToUpper(dest)

	out := make([]RouteCandidate, 0, len(FeederDayOffsets)*len(ReturnFeederDayOffsets))
	for _, fo := range FeederDayOffsets {
		for _, ro := range ReturnFeederDayOffsets {
			out = append(out, RouteCandidate{
				AltOrigin:          altOrigin,
				Hub:                hub,
				Destination:        dest,
				Depart:             depart,
				Return:             ret,
				FeederOffset:       fo,
				ReturnFeederOffset: ro,
			})
		}
	}
	return out
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

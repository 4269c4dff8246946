package domain

import (
	"math"
	"strings"
)

// Zone is a distance-based reward category.
type Zone string

const (
	ZoneUltraShort Zone = "ULTRA_SHORT"
	ZoneShort      Zone = "SHORT"
	ZoneMedium     Zone = "MEDIUM"
	ZoneLong       Zone = "LONG"
	ZoneUltraLong  Zone = "ULTRA_LONG"
	ZoneUnknown    Zone = "UNKNOWN"
)

// SHORT zone subtypes.
const (
	SubtypeType1 = "TYPE1"
	SubtypeType2 = "TYPE2"
)

// ZoneBand is a distance range in miles. Max is the inclusive whole-mile
// bound; fractional distances between two bands belong to the lower one so
// the bands leave no gaps.
type ZoneBand struct {
	Zone Zone
	Min  float64
	Max  float64
}

// ZoneBands are evaluated in order; the first band containing the distance wins.
var ZoneBands = []ZoneBand{
	{Zone: ZoneUltraShort, Min: 1, Max: 750},
	{Zone: ZoneShort, Min: 751, Max: 2750},
	{Zone: ZoneMedium, Min: 2751, Max: 5000},
	{Zone: ZoneLong, Min: 5001, Max: 7500},
	{Zone: ZoneUltraLong, Min: 7501, Max: 1e9},
}

// DefaultType2Countries is the country group that turns a SHORT segment into TYPE2.
var DefaultType2Countries = []string{"ID", "LK", "NP", "BD", "IN"}

// ZoneClassifier maps a segment distance and its endpoint countries to a zone.
// The zero value classifies with an empty grouped-country set.
type ZoneClassifier struct {
	type2 map[string]struct{}
}

// NewZoneClassifier builds a classifier whose SHORT/TYPE2 group is countries.
func NewZoneClassifier(countries []string) ZoneClassifier {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return ZoneClassifier{type2: set}
}

// DefaultZoneClassifier uses DefaultType2Countries.
func DefaultZoneClassifier() ZoneClassifier {
	return NewZoneClassifier(DefaultType2Countries)
}

// Classify returns the zone for miles and, for SHORT only, a subtype.
// Distances outside every band (zero, negative, NaN) are ZoneUnknown.
func (c ZoneClassifier) Classify(miles float64, originCountry, destCountry string) (Zone, *string) {
	band, ok := bandFor(miles)
	if !ok {
		return ZoneUnknown, nil
	}
	if band.Zone != ZoneShort {
		return band.Zone, nil
	}
	subtype := SubtypeType1
	if c.isType2(originCountry) || c.isType2(destCountry) {
		subtype = SubtypeType2
	}
	return ZoneShort, &subtype
}

func bandFor(miles float64) (ZoneBand, bool) {
	if math.IsNaN(miles) || miles < ZoneBands[0].Min {
		return ZoneBand{}, false
	}
	for i, band := range ZoneBands {
		if i+1 < len(ZoneBands) && miles >= ZoneBands[i+1].Min {
			continue
		}
		if miles > band.Max && i+1 == len(ZoneBands) {
			return ZoneBand{}, false
		}
		return band, true
	}
	return ZoneBand{}, false
}

func (c ZoneClassifier) isType2(country string) bool {
	if country == "" {
		return false
	}
	_, ok := c.type2[strings.ToUpper(country)]
	return ok
}

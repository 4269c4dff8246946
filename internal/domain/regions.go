package domain

import (
	"sort"
	"strings"
)

// DefaultRegions are searched when a caller names no region groups.
var DefaultRegions = []string{"China", "Singapore", "Malaysia", "Indonesia", "Japan", "Korea", "Taiwan"}

// DefaultMaxOrigins caps how many alternate origins one search expands to.
const DefaultMaxOrigins = 40

// regionAirports lists candidate alternate origins per region group, busiest first.
var regionAirports = map[string][]string{
	"china":       {"PEK", "PKX", "PVG", "SHA", "CAN", "SZX", "CTU", "TFU", "CKG", "XMN", "HGH", "WUH", "NKG", "KMG", "XIY", "TAO", "FOC", "CSX"},
	"singapore":   {"SIN"},
	"malaysia":    {"KUL", "PEN", "BKI", "KCH"},
	"indonesia":   {"CGK", "DPS", "SUB"},
	"japan":       {"NRT", "HND", "KIX", "NGO", "FUK", "CTS", "OKA"},
	"korea":       {"ICN", "GMP", "PUS", "CJU"},
	"taiwan":      {"TPE", "TSA", "KHH", "RMQ"},
	"philippines": {"MNL", "CEB"},
	"thailand":    {"BKK", "HKT", "CNX"},
	"vietnam":     {"SGN", "HAN", "DAD"},
	"india":       {"DEL", "BOM", "BLR", "MAA"},
	"australia":   {"SYD", "MEL", "BNE", "PER"},
}

// KnownRegions lists the region group names in alphabetical order.
func KnownRegions() []string {
	out := make([]string, 0, len(regionAirports))
	for k := range regionAirports {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ExpandOrigins returns the airports of the named region groups in the order
// given, without duplicates. Region names are case-insensitive; unknown names
// are returned separately.
func ExpandOrigins(regions []string) (origins []string, unknown []string) {
	seen := make(map[string]struct{})
	for _, region := range regions {
		key := strings.ToLower(strings.TrimSpace(region))
		if key == "" {
			continue
		}
		codes, ok := regionAirports[key]
		if !ok {
			unknown = append(unknown, region)
			continue
		}
		for _, code := range codes {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			origins = append(origins, code)
		}
	}
	return origins, unknown
}

package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDurationRe accepts the subset of ISO-8601 durations the provider emits:
// PT, then optional hours, minutes and seconds in that order.
var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts a duration such as "PT13H5M" into whole minutes.
// Seconds of 30 or more round up by one minute. Anything that does not match
// the grammar yields 0, which callers treat as "unknown".
func ParseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])

	total := hours*60 + minutes
	if seconds >= 30 {
		total++
	}
	return total
}

// FormatMinutes renders minutes as "2h 5m", "2h" or "5m".
func FormatMinutes(m int) string {
	h := m / 60
	mi := m % 60
	switch {
	case h > 0 && mi > 0:
		return fmt.Sprintf("%dh %dm", h, mi)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", mi)
	}
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/provider"
)

// ErrInvalidRequest wraps every validation failure of a Request.
var ErrInvalidRequest = errors.New("invalid search request")

const maxAdults = 9

var validCabins = map[string]struct{}{
	provider.CabinAny: {}, "ECONOMY": {}, "PREMIUM_ECONOMY": {}, "BUSINESS": {}, "FIRST": {},
}

// Request describes one direct-plus-feeder search run.
type Request struct {
	Hub         string    `json:"hub"`
	Destination string    `json:"destination"`
	Depart      time.Time `json:"depart"`
	Return      time.Time `json:"return"`
	// Origins, when set, replaces region expansion.
	Origins       []string `json:"origins,omitempty"`
	Regions       []string `json:"regions,omitempty"`
	Adults        int      `json:"adults"`
	Currency      string   `json:"currency"`
	Cabin         string   `json:"cabin"`
	StrictCarrier bool     `json:"strict_carrier"`
	NonStopDirect bool     `json:"nonstop_direct"`
	MaxResults    int      `json:"max_results"`
	FareType      string   `json:"fare_type"`
}

// Normalize upper-cases codes and fills defaults in place.
func (r *Request) Normalize(defaultCurrency string, defaultMax int) {
	r.Hub = strings.ToUpper(strings.TrimSpace(r.Hub))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = defaultCurrency
	}
	r.Cabin = strings.ToUpper(strings.TrimSpace(r.Cabin))
	if r.Cabin == "" {
		r.Cabin = provider.CabinAny
	}
	r.FareType = strings.ToUpper(strings.TrimSpace(r.FareType))
	if r.FareType == "" {
		r.FareType = domain.FareAuto
	}
	if r.Adults == 0 {
		r.Adults = 1
	}
	if r.MaxResults <= 0 {
		r.MaxResults = defaultMax
	}
	for i, o := range r.Origins {
		r.Origins[i] = strings.ToUpper(strings.TrimSpace(o))
	}
}

// Validate reports the first problem with r, wrapped in ErrInvalidRequest.
func (r *Request) Validate() error {
	switch {
	case !isIATA(r.Hub):
		return fmt.Errorf("%w: hub %q is not a 3-letter IATA code", ErrInvalidRequest, r.Hub)
	case !isIATA(r.Destination):
		return fmt.Errorf("%w: destination %q is not a 3-letter IATA code", ErrInvalidRequest, r.Destination)
	case r.Hub == r.Destination:
		return fmt.Errorf("%w: hub and destination are both %s", ErrInvalidRequest, r.Hub)
	case r.Depart.IsZero() || r.Return.IsZero():
		return fmt.Errorf("%w: depart and return dates are required", ErrInvalidRequest)
	case r.Return.Before(r.Depart):
		return fmt.Errorf("%w: return %s is before depart %s", ErrInvalidRequest,
			r.Return.Format(domain.DateLayout), r.Depart.Format(domain.DateLayout))
	case r.Adults < 1 || r.Adults > maxAdults:
		return fmt.Errorf("%w: adults must be between 1 and %d", ErrInvalidRequest, maxAdults)
	}
	if _, ok := validCabins[r.Cabin]; !ok {
		return fmt.Errorf("%w: unknown cabin %q", ErrInvalidRequest, r.Cabin)
	}
	for _, o := range r.Origins {
		if !isIATA(o) {
			return fmt.Errorf("%w: origin %q is not a 3-letter IATA code", ErrInvalidRequest, o)
		}
	}
	return nil
}

// ResolveOrigins returns the alternate origins for r: the explicit list when
// given, otherwise the expanded regions (default regions when none). Hub and
// destination are skipped, duplicates dropped and the list capped at max
// (max <= 0 means no cap). Unknown region names are returned separately.
func ResolveOrigins(r Request, max int) (origins []string, unknownRegions []string) {
	candidates := r.Origins
	if len(candidates) == 0 {
		regions := r.Regions
		if len(regions) == 0 {
			regions = domain.DefaultRegions
		}
		candidates, unknownRegions = domain.ExpandOrigins(regions)
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, o := range candidates {
		o = strings.ToUpper(o)
		if o == r.Hub || o == r.Destination {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
		if max > 0 && len(origins) == max {
			break
		}
	}
	return origins, unknownRegions
}

func isIATA(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
)

// ErrTemporary marks failures worth retrying (throttling, 5xx, transport errors).
var ErrTemporary = errors.New("temporary provider error")

// CabinAny leaves the cabin unrestricted.
const CabinAny = "ANY"

// SearchRequest is a round-trip search between two airports.
type SearchRequest struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
	Adults        int
	Currency      string
	Cabin         string // ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST or ANY
	NonStop       bool
	Max           int
}

// MultiCityRequest is a search over an ordered list of dated legs.
type MultiCityRequest struct {
	Legs     []domain.Leg
	Adults   int
	Currency string
	Cabin    string
	Max      int
}

// Provider returns raw flight offers.
type Provider interface {
	Name() string
	Search(ctx context.Context, req SearchRequest) ([]domain.RawOffer, error)
	SearchMultiCity(ctx context.Context, req MultiCityRequest) ([]domain.RawOffer, error)
}

// Error is a failure reported by the provider itself.
type Error struct {
	Provider string
	Status   int
	Code     string
	Detail   string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: status %d", e.Provider, e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " code %s", e.Code)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

// Temporary reports whether the call may succeed if repeated.
func (e *Error) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Unwrap lets errors.Is(err, ErrTemporary) see throttling and server errors.
func (e *Error) Unwrap() error {
	if e.Temporary() {
		return ErrTemporary
	}
	return nil
}

func normalizeCabin(cabin string) string {
	c := strings.ToUpper(strings.TrimSpace(cabin))
	if c == "" {
		return CabinAny
	}
	return c
}

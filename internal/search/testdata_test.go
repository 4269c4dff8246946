package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/index"
	"github.com/mic325hkg/CathayPriceChecker/internal/provider"
)

func date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func testTables() *index.Tables {
	return index.NewTables(domain.NewAirports([]domain.AirportRecord{
		{Code: "HKG", Lat: 22.308, Lon: 113.9185, Country: "HK"},
		{Code: "LHR", Lat: 51.47, Lon: -0.4543, Country: "GB"},
		{Code: "PEK", Lat: 40.0799, Lon: 116.6031, Country: "CN"},
		{Code: "TPE", Lat: 25.0777, Lon: 121.2328, Country: "TW"},
		{Code: "SIN", Lat: 1.3644, Lon: 103.9915, Country: "SG"},
	}), domain.DefaultZoneClassifier())
}

func offer(id, price string, legs ...[2]string) domain.RawOffer {
	o := domain.RawOffer{ID: id, Price: domain.RawPrice{Currency: "HKD", Total: price, GrandTotal: price}}
	for i, l := range legs {
		o.Itineraries = append(o.Itineraries, domain.RawItinerary{
			Duration: "PT3H",
			Segments: []domain.RawSegment{{
				ID:          string(rune('1' + i)),
				Departure:   domain.RawEndpoint{IATACode: l[0]},
				Arrival:     domain.RawEndpoint{IATACode: l[1]},
				CarrierCode: "CX",
				Number:      "100",
				Duration:    "PT3H",
			}},
		})
	}
	return o
}

// fakeProvider answers from per-origin price tables. Multi-city searches are
// keyed by the first leg's origin.
type fakeProvider struct {
	mu        sync.Mutex
	direct    []domain.RawOffer
	directErr error
	feeder    map[string]string // alt origin -> price
	fail      map[string]bool   // alt origin -> error
	block     bool              // wait for ctx on every multi-city call
	calls     []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, req provider.SearchRequest) ([]domain.RawOffer, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "direct:"+req.Origin+"-"+req.Destination)
	f.mu.Unlock()
	if f.directErr != nil {
		return nil, f.directErr
	}
	return f.direct, nil
}

func (f *fakeProvider) SearchMultiCity(ctx context.Context, req provider.MultiCityRequest) ([]domain.RawOffer, error) {
	origin := req.Legs[0].Origin
	f.mu.Lock()
	f.calls = append(f.calls, "multi:"+origin)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.fail[origin] {
		return nil, errors.New("upstream 500")
	}
	price, ok := f.feeder[origin]
	if !ok {
		return nil, nil
	}
	return []domain.RawOffer{offer("1", price,
		[2]string{origin, req.Legs[1].Origin},
		[2]string{req.Legs[1].Origin, req.Legs[1].Destination},
		[2]string{req.Legs[2].Origin, req.Legs[2].Destination},
		[2]string{req.Legs[3].Origin, req.Legs[3].Destination},
	)}, nil
}

func (f *fakeProvider) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type recorderFunc func(ctx context.Context, res *Result) error

func (f recorderFunc) Record(ctx context.Context, res *Result) error { return f(ctx, res) }

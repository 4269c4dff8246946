package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
)

// FileProvider serves offers from recorded provider responses on disk, for
// offline runs and tests.
//
// Round trips are read from rt_<ORIG>-<DEST>_<DEPART>[_<RETURN>].json and
// multi-city searches from mc_<A>-<B>-..._<DATE1>_<DATE2>....json. When the
// dated file is absent the undated rt_<ORIG>-<DEST>.json or mc_<A>-<B>-....json
// is tried. A search without any matching file returns no offers.
type FileProvider struct {
	dir string
}

func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

func (f *FileProvider) Name() string {
	return "file"
}

func (f *FileProvider) Search(ctx context.Context, req SearchRequest) ([]domain.RawOffer, error) {
	route := strings.ToUpper(req.Origin) + "-" + strings.ToUpper(req.Destination)
	dates := []string{req.DepartureDate.Format(domain.DateLayout)}
	if req.ReturnDate != nil {
		dates = append(dates, req.ReturnDate.Format(domain.DateLayout))
	}

	offers, err := f.read(ctx, "rt_"+route, dates)
	if err != nil {
		return nil, err
	}
	if req.NonStop {
		offers = filterNonStop(offers)
	}
	return limit(offers, req.Max), nil
}

func (f *FileProvider) SearchMultiCity(ctx context.Context, req MultiCityRequest) ([]domain.RawOffer, error) {
	if len(req.Legs) == 0 {
		return nil, errors.New("file multi-city search needs at least one leg")
	}
	codes := []string{strings.ToUpper(req.Legs[0].Origin)}
	dates := make([]string, 0, len(req.Legs))
	for _, leg := range req.Legs {
		codes = append(codes, strings.ToUpper(leg.Destination))
		dates = append(dates, leg.DateString())
	}

	offers, err := f.read(ctx, "mc_"+strings.Join(codes, "-"), dates)
	if err != nil {
		return nil, err
	}
	return limit(offers, req.Max), nil
}

// FixtureName returns the dated file name for a route and its dates.
func FixtureName(prefix string, dates []string) string {
	return prefix + "_" + strings.Join(dates, "_") + ".json"
}

func (f *FileProvider) read(ctx context.Context, prefix string, dates []string) ([]domain.RawOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range []string{FixtureName(prefix, dates), prefix + ".json"} {
		path := filepath.Join(f.dir, filepath.Clean("/"+name))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("file provider read %s: %w", name, err)
		}

		var resp offersResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("file provider decode %s: %w", name, err)
		}
		if len(resp.Errors) > 0 {
			e := resp.Errors[0]
			return nil, &Error{Provider: f.Name(), Status: e.Status, Code: fmt.Sprint(e.Code), Detail: e.Title}
		}
		return resp.Data, nil
	}
	return []domain.RawOffer{}, nil
}

func filterNonStop(offers []domain.RawOffer) []domain.RawOffer {
	out := make([]domain.RawOffer, 0, len(offers))
	for _, o := range offers {
		if domain.StopCount(o) == 0 {
			out = append(out, o)
		}
	}
	return out
}

func limit(offers []domain.RawOffer, max int) []domain.RawOffer {
	if max > 0 && len(offers) > max {
		return offers[:max]
	}
	return offers
}

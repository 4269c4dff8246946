package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/provider"
)

type originsResponse struct {
	Regions        []string `json:"regions"`
	Origins        []string `json:"origins"`
	UnknownRegions []string `json:"unknown_regions"`
	KnownRegions   []string `json:"known_regions"`
}

// Origins expands region names to alternate origin airports. Without a
// regions parameter the default regions are used.
func Origins(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions := queryList(r, "regions")
		if len(regions) == 0 {
			regions = domain.DefaultRegions
		}
		origins, unknown := domain.ExpandOrigins(regions)
		if d.MaxOrigins > 0 && len(origins) > d.MaxOrigins {
			origins = origins[:d.MaxOrigins]
		}
		if origins == nil {
			origins = []string{}
		}
		if unknown == nil {
			unknown = []string{}
		}
		writeJSON(w, d, http.StatusOK, originsResponse{
			Regions:        regions,
			Origins:        origins,
			UnknownRegions: unknown,
			KnownRegions:   domain.KnownRegions(),
		})
	}
}

type routeBody struct {
	Key  string                 `json:"key"`
	Body provider.MultiCityBody `json:"body"`
}

// Routes returns the synthesized via-hub multi-city request bodies for one
// alternate origin without calling the provider.
func Routes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		origin := strings.ToUpper(strings.TrimSpace(q.Get("origin")))
		hub := strings.ToUpper(strings.TrimSpace(q.Get("hub")))
		dest := strings.ToUpper(strings.TrimSpace(q.Get("dest")))
		if origin == "" || hub == "" || dest == "" {
			writeError(w, d, http.StatusBadRequest, "origin, hub and dest are required")
			return
		}
		depart, ret, err := parseDates(q.Get("depart"), q.Get("return"))
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		adults, err := queryInt(r, "adults", 1)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		candidates := domain.BuildViaHubRoutes(origin, hub, dest, depart, ret)
		out := make([]routeBody, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, routeBody{
				Key: c.Key(),
				Body: provider.BuildMultiCityBody(provider.MultiCityRequest{
					Legs:     c.Legs(),
					Adults:   adults,
					Currency: strings.ToUpper(firstNonEmpty(q.Get("currency"), d.Currency)),
					Cabin:    q.Get("cabin"),
					Max:      d.FeederMaxResults,
				}),
			})
		}
		writeJSON(w, d, http.StatusOK, out)
	}
}

func parseDates(departRaw, returnRaw string) (time.Time, time.Time, error) {
	depart, err := domain.ParseDate(departRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	ret, err := domain.ParseDate(returnRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return depart, ret, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

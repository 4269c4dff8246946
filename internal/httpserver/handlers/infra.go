package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Loaded     *int   `json:"loaded,omitempty"`
	Version    string `json:"version,omitempty"`
	Source     string `json:"source,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airports := d.Tables.AirportCount()
		rules := d.Tables.RuleCount()
		lastReload := d.Tables.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"airports": {
				OK:     airports > 0,
				Loaded: &airports,
			},
			"earnings": {
				OK:         rules > 0,
				Loaded:     &rules,
				Version:    d.Tables.Earnings().VersionString(),
				Source:     d.EarningFile,
				LastReload: lastReloadStr,
				Impact:     impactIf(rules == 0, "reward-estimates-unavailable"),
			},
			"provider": {
				OK:   d.ProviderName != "",
				Mode: d.ProviderName,
			},
			"redis":    checkPinger(r.Context(), d.Stats, "offer-cache-and-stats-disabled"),
			"postgres": checkPinger(r.Context(), d.History, "run-history-disabled"),
		}

		writeJSON(w, d, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func impactIf(cond bool, impact string) string {
	if cond {
		return impact
	}
	return ""
}

func determineMode(components map[string]componentStatus) string {
	// No airports means no distance, zone or estimate at all.
	if c, ok := components["airports"]; ok && !c.OK {
		return "critical"
	}
	for _, name := range []string{"earnings", "redis", "postgres"} {
		c, ok := components[name]
		if ok && !c.OK && c.Mode != "disabled" {
			return "degraded"
		}
	}
	return "operational"
}

type pinger interface {
	Ping(ctx context.Context) error
}

func checkPinger(ctx context.Context, p pinger, impact string) componentStatus {
	if p == nil {
		return componentStatus{OK: false, Mode: "disabled", Impact: impact}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: impact, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

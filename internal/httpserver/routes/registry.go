package routes

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type group struct {
	name string
	reg  Registrar
	mws  []Middleware
}

var registry []group

// Register adds a named route group. Groups are mounted in name order so the
// route table does not depend on file init order.
func Register(name string, reg Registrar, mws ...Middleware) {
	registry = append(registry, group{name: name, reg: reg, mws: mws})
}

// RegisterAll mounts every group on r and logs the resulting route table.
func RegisterAll(r chi.Router, d deps.Deps) {
	groups := make([]group, len(registry))
	copy(groups, registry)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].name < groups[j].name })

	for _, g := range groups {
		if len(g.mws) == 0 {
			g.reg(r, d)
			continue
		}
		g.reg(r.With(g.mws...), d)
	}

	if d.Logger == nil {
		return
	}
	table := Table(r)
	d.Logger.Debug("routes mounted",
		logger.Int("groups", len(groups)),
		logger.Strings("routes", table))
}

// Table lists the "METHOD /path" pairs served by r, sorted.
func Table(r chi.Routes) []string {
	var out []string
	_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, method+" "+strings.TrimSuffix(route, "/*"))
		return nil
	})
	sort.Strings(out)
	return out
}

package mw

import (
	"net/http"

	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/utils"
)

// AllowOnlyCIDRS guards the ops endpoints (/readyz, /infra, /reload,
// /cache/flush) with an IP/CIDR allow-list. An empty list disables the check.
// trustProxy should be true only behind a reverse proxy that sets the
// forwarding headers.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("ops allow-list enabled",
		logger.Strings("cidrs", allowed),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if m.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}
			deny(w, r, log, "cidr",
				logger.String("client_ip", ip),
				logger.String("remote_addr", r.RemoteAddr))
		})
	}
}

// deny answers 403 and records the guard that rejected the request.
func deny(w http.ResponseWriter, r *http.Request, log logger.Logger, guard string, fields ...logger.Field) {
	Annotate(r.Context(), logger.String("denied_by", guard))
	log.Warn("request denied",
		append([]logger.Field{
			logger.String("guard", guard),
			logger.String("path", r.URL.Path),
		}, fields...)...)
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

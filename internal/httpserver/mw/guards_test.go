package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{"cx.example.com", "cx.example.com", true},
		{"api.example.com", "*.example.com", true},
		{"a.b.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"badexample.com", "*.example.com", false},
		{"other.com", "cx.example.com", false},
		{"", "*.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.host+"~"+tt.pattern, func(t *testing.T) {
			if got := matchHost(tt.host, tt.pattern); got != tt.want {
				t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"CX.Example.com", "*.internal.lan"}, logger.Nop())(okHandler)

	tests := []struct {
		host string
		want int
	}{
		{"cx.example.com:8080", http.StatusOK},
		{"CX.EXAMPLE.COM", http.StatusOK},
		{"ops.internal.lan", http.StatusOK},
		{"evil.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/origins", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestEnforceHostEmptyIsPassthrough(t *testing.T) {
	h := EnforceHost([]string{" "}, logger.Nop())(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "anything"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		forwarded  string
		trustProxy bool
		want       int
	}{
		{"inside range", "10.1.2.3:1234", "", false, http.StatusOK},
		{"outside range", "192.168.1.9:1234", "", false, http.StatusForbidden},
		{"header ignored without trust", "192.168.1.9:1234", "10.0.0.1", false, http.StatusForbidden},
		{"header used with trust", "192.168.1.9:1234", "10.0.0.1", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observedLogger()
			h := Log(log, tt.trustProxy)(AllowOnlyCIDRS([]string{"10.0.0.0/8"}, tt.trustProxy, log)(okHandler))

			req := httptest.NewRequest(http.MethodGet, "/infra", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			access := logs.FilterMessage("http_request").All()
			if len(access) != 1 {
				t.Fatalf("got %d access lines, want 1", len(access))
			}
			denied, ok := access[0].ContextMap()["denied_by"]
			if (tt.want == http.StatusForbidden) != ok || (ok && denied != "cidr") {
				t.Errorf("denied_by = %v, present=%v", denied, ok)
			}
		})
	}
}

package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestLogIncludesAnnotations(t *testing.T) {
	log, logs := observedLogger()
	h := Log(log, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Annotate(r.Context(), logger.String("run_id", "run-1"), logger.String("hub", "HKG"))
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d access lines, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["run_id"] != "run-1" || fields["hub"] != "HKG" {
		t.Errorf("annotations missing: %v", fields)
	}
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("status = %v, want 201", fields["status"])
	}
	if fields["client_ip"] != "10.0.0.7" {
		t.Errorf("client_ip = %v, want 10.0.0.7", fields["client_ip"])
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %s, want info", entries[0].Level)
	}
}

func TestLogLevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   zapcore.Level
	}{
		{"server error", "/api/search", http.StatusInternalServerError, zapcore.ErrorLevel},
		{"client error", "/api/search", http.StatusBadRequest, zapcore.WarnLevel},
		{"probe", "/healthz", http.StatusOK, zapcore.DebugLevel},
		{"ok", "/api/origins", http.StatusOK, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observedLogger()
			h := Log(log, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			entries := logs.All()
			if len(entries) != 1 || entries[0].Level != tt.want {
				t.Fatalf("entries = %v, want one %s line", entries, tt.want)
			}
		})
	}
}

func TestAnnotateOutsideLogIsNoop(t *testing.T) {
	Annotate(httptest.NewRequest(http.MethodGet, "/", nil).Context(), logger.String("k", "v"))
}

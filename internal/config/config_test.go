package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{name: "variable set", key: "CXR_TEST_VAR", value: "test_value"},
		{name: "variable not set", key: "CXR_TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestGetenvSlice(t *testing.T) {
	def := []string{"ID"}

	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "missing uses default", value: "", expected: def},
		{name: "blank entries only uses default", value: " , ,", expected: def},
		{name: "quoted and spaced", value: `"JP", IN ,'LK'`, expected: []string{"JP", "IN", "LK"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CXR_TEST_SLICE", tt.value)

			result := getenvSlice("CXR_TEST_SLICE", def)
			if len(result) != len(tt.expected) {
				t.Fatalf("getenvSlice() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("getenvSlice()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CXR_TEST_DURATION", tt.value)

			if result := mustDuration("CXR_TEST_DURATION", tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CXR_TEST_BOOL", tt.value)

			if result := mustBool("CXR_TEST_BOOL", tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoad_FileProviderDefaults(t *testing.T) {
	t.Setenv("CXR_PROVIDER", "file")
	t.Setenv("CXR_TYPE2_COUNTRIES", "")
	t.Setenv("CXR_PREFERRED_CARRIER", "cx")
	t.Setenv("CXR_SEARCH_WORKERS", "0")

	cfg := Load()

	if cfg.Provider != ProviderFile {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderFile)
	}
	if cfg.PreferredCarrier != "CX" {
		t.Errorf("PreferredCarrier = %q, want CX", cfg.PreferredCarrier)
	}
	if len(cfg.Type2Countries) != 5 {
		t.Errorf("Type2Countries = %v, want the 5 default countries", cfg.Type2Countries)
	}
	if cfg.SearchWorkers != 1 {
		t.Errorf("SearchWorkers = %d, want clamp to 1", cfg.SearchWorkers)
	}
	if cfg.MaxOrigins != 40 {
		t.Errorf("MaxOrigins = %d, want 40", cfg.MaxOrigins)
	}
}

func TestLoad_SearchDeadlineBelowRequestTimeout(t *testing.T) {
	tests := []struct {
		name     string
		deadline string
		timeout  string
		expected time.Duration
	}{
		{name: "below timeout kept", deadline: "30s", timeout: "60s", expected: 30 * time.Second},
		{name: "equal to timeout clamped", deadline: "60s", timeout: "60s", expected: 54 * time.Second},
		{name: "above timeout clamped", deadline: "2m", timeout: "10s", expected: 9 * time.Second},
		{name: "zero clamped", deadline: "0s", timeout: "10s", expected: 9 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CXR_PROVIDER", "file")
			t.Setenv("CXR_SEARCH_DEADLINE", tt.deadline)
			t.Setenv("CXR_REQUEST_TIMEOUT", tt.timeout)

			cfg := Load()
			if cfg.SearchDeadline != tt.expected {
				t.Errorf("SearchDeadline = %s, want %s", cfg.SearchDeadline, tt.expected)
			}
		})
	}
}

func TestLoad_AmadeusRequiresCredentials(t *testing.T) {
	t.Setenv("CXR_PROVIDER", "amadeus")
	t.Setenv("CXR_AMADEUS_CLIENT_ID", "")
	t.Setenv("CXR_AMADEUS_CLIENT_SECRET", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without Amadeus credentials")
		}
	}()
	Load()
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("CXR_PROVIDER", "sabre")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked on unknown provider")
		}
	}()
	Load()
}

func TestRedacted(t *testing.T) {
	cfg := &Config{AmadeusClientSecret: "s3cret", RedisPassword: "pw", PostgresDSN: "postgres://u:p@h/db"}

	r := cfg.Redacted()
	if r.AmadeusClientSecret == "s3cret" || r.RedisPassword == "pw" || r.PostgresDSN == cfg.PostgresDSN {
		t.Errorf("Redacted() leaked a secret: %+v", r)
	}
	if cfg.AmadeusClientSecret != "s3cret" {
		t.Errorf("Redacted() mutated the original")
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider backends.
const (
	ProviderAmadeus = "amadeus"
	ProviderFile    = "file"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, must cover a full search run

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Reference data
	AirportFile           string        // CSV code,lat,lon,country (empty = embedded table)
	EarningFile           string        // earning rules YAML (missing file = empty table)
	EarningReloadInterval time.Duration // interval to reload the earning table (default: 1h)
	Type2Countries        []string      // countries that make a SHORT segment TYPE2
	PreferredCarrier      string        // carrier used by the single-carrier filter (default: CX)
	Currency              string        // requested currency (default: HKD)

	// Provider
	Provider            string        // "amadeus" | "file"
	AmadeusClientID     string        // required when Provider=amadeus
	AmadeusClientSecret string        // required when Provider=amadeus
	AmadeusEnv          string        // "test" | "production"
	FixtureDir          string        // fixture directory when Provider=file
	ProviderTimeout     time.Duration // per-call timeout
	ProviderRetries     int           // retries on temporary failures
	ProviderBackoff     time.Duration // first retry delay, doubles each attempt
	ProviderInterval    time.Duration // minimum spacing between provider calls (0 = unthrottled)

	// Search
	SearchWorkers    int           // concurrent provider calls per run
	SearchDeadline   time.Duration // wall-clock budget of one run
	MaxOrigins       int           // cap on alternate origins per run
	DirectMaxResults int           // offers requested for the direct hub<->destination search
	FeederMaxResults int           // offers requested per synthesized multi-city search
	MaxResults       int           // per-block truncation of the final list (0 = no limit)

	// Redis (optional, empty address disables the offer cache and route counters)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
	OfferCacheTTL       time.Duration // lifetime of cached provider responses

	// Postgres (optional, empty DSN disables run history)
	PostgresDSN          string
	HistoryRetention     time.Duration // stored runs older than this are pruned (default: 30 days)
	HistoryPruneInterval time.Duration // interval between prune passes (default: 24h)

	AllowedHosts     []string // optional, restrict access to specific Host headers
	AllowedCIDRS     []string // optional, restrict ops endpoints to specific IPs
	TrustProxy       bool     // true => trust X-Forwarded-For headers
	SearchRateBurst  int      // token bucket size for /api/search per client
	SearchRatePerMin int      // token refill rate for /api/search per client
	CORSOrigins      []string // allowed CORS origins (empty = CORS disabled)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CXR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CXR_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("CXR_REQUEST_TIMEOUT", 90*time.Second),

		// Logging
		LogLevel:  getenv("CXR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CXR_PRETTY_LOG", true),

		// Reference data
		AirportFile:           getenv("CXR_AIRPORT_FILE", ""),
		EarningFile:           getenv("CXR_EARNING_FILE", "/app/earning_table.yaml"),
		EarningReloadInterval: mustDuration("CXR_EARNING_RELOAD_INTERVAL", time.Hour),
		Type2Countries:        getenvSlice("CXR_TYPE2_COUNTRIES", []string{"ID", "LK", "NP", "BD", "IN"}),
		PreferredCarrier:      strings.ToUpper(getenv("CXR_PREFERRED_CARRIER", "CX")),
		Currency:              strings.ToUpper(getenv("CXR_CURRENCY", "HKD")),

		// Provider
		Provider:         strings.ToLower(getenv("CXR_PROVIDER", ProviderAmadeus)),
		AmadeusEnv:       strings.ToLower(getenv("CXR_AMADEUS_ENV", "test")),
		FixtureDir:       getenv("CXR_FIXTURE_DIR", "/app/fixtures"),
		ProviderTimeout:  mustDuration("CXR_PROVIDER_TIMEOUT", 30*time.Second),
		ProviderRetries:  getenvInt("CXR_PROVIDER_RETRIES", 2),
		ProviderBackoff:  mustDuration("CXR_PROVIDER_BACKOFF", 500*time.Millisecond),
		ProviderInterval: mustDuration("CXR_PROVIDER_INTERVAL", 100*time.Millisecond),

		// Search
		SearchWorkers:    getenvInt("CXR_SEARCH_WORKERS", 4),
		SearchDeadline:   mustDuration("CXR_SEARCH_DEADLINE", 60*time.Second),
		MaxOrigins:       getenvInt("CXR_MAX_ORIGINS", 40),
		DirectMaxResults: getenvInt("CXR_DIRECT_MAX_RESULTS", 20),
		FeederMaxResults: getenvInt("CXR_FEEDER_MAX_RESULTS", 2),
		MaxResults:       getenvInt("CXR_MAX_RESULTS", 20),

		// Redis settings
		RedisAddr:           getenv("CXR_REDIS_ADDR", ""),
		RedisUser:           getenv("CXR_REDIS_USERNAME", ""),
		RedisPassword:       getenv("CXR_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("CXR_REDIS_DB", 0),
		RedisDT:             mustDuration("CXR_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("CXR_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("CXR_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("CXR_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("CXR_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("CXR_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("CXR_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("CXR_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("CXR_REDIS_WARN_THRESHOLD", 3),
		OfferCacheTTL:       mustDuration("CXR_OFFER_CACHE_TTL", 15*time.Minute),

		PostgresDSN:          getenv("CXR_POSTGRES_DSN", ""),
		HistoryRetention:     mustDuration("CXR_HISTORY_RETENTION", 30*24*time.Hour),
		HistoryPruneInterval: mustDuration("CXR_HISTORY_PRUNE_INTERVAL", 24*time.Hour),

		// Access restrictions
		AllowedHosts:     splitAndTrim(getenv("CXR_ALLOWED_HOSTS", "")),
		AllowedCIDRS:     parseAllowedIPs(getenv("CXR_ALLOWED_CIDRS", "")),
		TrustProxy:       mustBool("CXR_TRUST_PROXY", false),
		SearchRateBurst:  getenvInt("CXR_SEARCH_RATE_BURST", 3),
		SearchRatePerMin: getenvInt("CXR_SEARCH_RATE_PER_MIN", 6),
		CORSOrigins:      splitAndTrim(getenv("CXR_CORS_ORIGINS", "")),
	}

	switch cfg.Provider {
	case ProviderAmadeus:
		cfg.AmadeusClientID = requireEnv("CXR_AMADEUS_CLIENT_ID")
		cfg.AmadeusClientSecret = requireEnv("CXR_AMADEUS_CLIENT_SECRET")
		if cfg.AmadeusEnv != "test" && cfg.AmadeusEnv != "production" {
			panic(fmt.Sprintf("❌ FATAL: CXR_AMADEUS_ENV must be test or production, got %q", cfg.AmadeusEnv))
		}
	case ProviderFile:
	default:
		panic(fmt.Sprintf("❌ FATAL: CXR_PROVIDER must be %s or %s, got %q", ProviderAmadeus, ProviderFile, cfg.Provider))
	}

	if cfg.SearchWorkers < 1 {
		cfg.SearchWorkers = 1
	}
	if cfg.MaxOrigins < 0 {
		cfg.MaxOrigins = 0
	}
	clampSearchDeadline(cfg)

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// clampSearchDeadline keeps a run's budget inside the request timeout so the
// handler still has time to write the partial result.
func clampSearchDeadline(cfg *Config) {
	if cfg.RequestTimeout <= 0 {
		return
	}
	if cfg.SearchDeadline <= 0 || cfg.SearchDeadline >= cfg.RequestTimeout {
		clamped := cfg.RequestTimeout * 9 / 10
		log.Printf("[WARN] CXR_SEARCH_DEADLINE %s must be below CXR_REQUEST_TIMEOUT %s, using %s\n",
			cfg.SearchDeadline, cfg.RequestTimeout, clamped)
		cfg.SearchDeadline = clamped
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.AmadeusClientSecret != "" {
		cp.AmadeusClientSecret = "***REDACTED***"
	}
	if cp.PostgresDSN != "" {
		cp.PostgresDSN = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvSlice(key string, def []string) []string {
	if v := splitAndTrim(os.Getenv(key)); len(v) > 0 {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

package deps

import (
	"context"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/index"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/search"
	"github.com/mic325hkg/CathayPriceChecker/internal/store/postgres"
	redisstore "github.com/mic325hkg/CathayPriceChecker/internal/store/redis"
)

// Searcher runs a full direct-plus-feeder search.
type Searcher interface {
	Run(ctx context.Context, req search.Request) (*search.Result, error)
}

// History reads stored search runs.
type History interface {
	ListRuns(ctx context.Context, f postgres.ListFilter) ([]postgres.RunSummary, error)
	GetRun(ctx context.Context, id string) (*postgres.RunRecord, error)
	Ping(ctx context.Context) error
}

// OfferCache drops cached provider responses.
type OfferCache interface {
	FlushOffers(ctx context.Context) (int, error)
}

// Stats reads the search counters.
type Stats interface {
	TopRoutes(ctx context.Context, n int) ([]redisstore.RouteCount, error)
	TopOrigins(ctx context.Context, n int) ([]redisstore.OriginCount, error)
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time // for testing, defaults to time.Now
	AllowedHosts     []string         // Host headers allowed to access the server
	AllowedCIDRS     []string         // IPs allowed to access ops endpoints
	TrustProxy       bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	SearchRateBurst  int              // token bucket size for /api/search
	SearchRatePerMin int              // token refill per client per minute for /api/search
	Tables           *index.Tables    // airport, zone and earning tables
	Searcher         Searcher         // search orchestration
	ProviderName     string           // active flight offer provider
	PreferredCarrier string           // single-carrier filter target
	Currency         string           // default currency
	MaxOrigins       int              // cap on alternate origins
	FeederMaxResults int              // offers requested per synthesized search
	EarningFile      string           // earning table path, for /infra
	History          History          // nil when Postgres is not configured
	Stats            Stats            // nil when Redis is not configured
	OfferCache       OfferCache       // nil when Redis is not configured
	ReloadTrigger    chan struct{}    // Channel to trigger manual earning table reload
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mic325hkg/CathayPriceChecker/internal/config"
	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver"
	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/index"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/provider"
	"github.com/mic325hkg/CathayPriceChecker/internal/redis"
	"github.com/mic325hkg/CathayPriceChecker/internal/scheduler"
	"github.com/mic325hkg/CathayPriceChecker/internal/search"
	"github.com/mic325hkg/CathayPriceChecker/internal/sources/airports"
	"github.com/mic325hkg/CathayPriceChecker/internal/store/postgres"
	redisstore "github.com/mic325hkg/CathayPriceChecker/internal/store/redis"
	"github.com/mic325hkg/CathayPriceChecker/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	db          *sqlx.DB
	reloader    *scheduler.EarningReloader
	collector   *scheduler.HistoryCollector // nil when history is disabled
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	loggerClient.Debugf("configuration loaded: %+v", cfg.Redacted())

	airportTable, err := airports.NewLoader(cfg.AirportFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load airports: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("airport table loaded",
		logger.Int("airports", len(airportTable)),
		logger.Strings("type2_countries", cfg.Type2Countries))

	tables := index.NewTables(airportTable, domain.NewZoneClassifier(cfg.Type2Countries))

	// Redis is optional, but once configured it must be reachable - fail fast
	startCtx, stopStart := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopStart()
	redisClient, err := redis.New(startCtx, redis.OptionsFromConfig(cfg), loggerClient)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		loggerClient.Info("redis not configured, offer cache and search stats disabled")
	case err != nil:
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	var store *redisstore.Store
	if redisClient != nil {
		store = redisstore.NewStore(redisClient)
	}

	// Postgres is optional as well
	var (
		db      *sqlx.DB
		history *postgres.HistoryStore
	)
	if cfg.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(startCtx, 30*time.Second)
		db, err = postgres.Open(ctx, cfg.PostgresDSN)
		if err == nil {
			err = postgres.RunMigrations(ctx, db)
		}
		cancel()
		if err != nil {
			loggerClient.Errorf("Failed to initialize Postgres: %v", err)
			os.Exit(1)
		}
		history = postgres.NewHistoryStore(db)
		loggerClient.Info("postgres initialized, search run history enabled")
	} else {
		loggerClient.Info("postgres not configured, search run history disabled")
	}

	offers := newProvider(cfg, store, loggerClient)

	var recorders []search.Recorder
	if history != nil {
		recorders = append(recorders, history)
	}
	if store != nil {
		recorders = append(recorders, store)
	}

	engine := search.NewEngine(offers, tables, loggerClient, search.Options{
		Workers:          cfg.SearchWorkers,
		Deadline:         cfg.SearchDeadline,
		MaxOrigins:       cfg.MaxOrigins,
		DirectMaxResults: cfg.DirectMaxResults,
		FeederMaxResults: cfg.FeederMaxResults,
		MaxResults:       cfg.MaxResults,
		PreferredCarrier: cfg.PreferredCarrier,
		Currency:         cfg.Currency,
	}, recorders...)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewEarningReloader(
		cfg.EarningFile,
		tables,
		loggerClient,
		cfg.EarningReloadInterval,
		reloadTrigger,
	)

	var collector *scheduler.HistoryCollector
	if history != nil {
		collector = scheduler.NewHistoryCollector(
			history,
			loggerClient,
			cfg.HistoryPruneInterval,
			cfg.HistoryRetention,
		)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		SearchRateBurst:  cfg.SearchRateBurst,
		SearchRatePerMin: cfg.SearchRatePerMin,
		Tables:           tables,
		Searcher:         engine,
		ProviderName:     offers.Name(),
		PreferredCarrier: cfg.PreferredCarrier,
		Currency:         cfg.Currency,
		MaxOrigins:       cfg.MaxOrigins,
		FeederMaxResults: cfg.FeederMaxResults,
		EarningFile:      cfg.EarningFile,
		ReloadTrigger:    reloadTrigger,
	}
	// Leave the interfaces nil rather than holding a nil pointer.
	if history != nil {
		d.History = history
	}
	if store != nil {
		d.Stats = store
		d.OfferCache = store
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		db:          db,
		reloader:    reloader,
		collector:   collector,
	}
}

// newProvider builds the offer source: cache, then retries, then throttle,
// then the backend.
func newProvider(cfg *config.Config, store *redisstore.Store, log logger.Logger) provider.Provider {
	var p provider.Provider
	switch cfg.Provider {
	case config.ProviderFile:
		p = provider.NewFileProvider(cfg.FixtureDir)
	default:
		p = provider.NewAmadeusClient(provider.AmadeusOptions{
			BaseURL:      provider.AmadeusBaseURL(cfg.AmadeusEnv),
			ClientID:     cfg.AmadeusClientID,
			ClientSecret: cfg.AmadeusClientSecret,
			HTTPClient:   &http.Client{Timeout: cfg.ProviderTimeout},
			Logger:       log,
		})
	}
	log.Info("flight offer provider selected",
		logger.String("provider", p.Name()),
		logger.Duration("min_interval", cfg.ProviderInterval),
		logger.Int("retries", cfg.ProviderRetries))

	p = provider.NewRateLimitedProvider(p, cfg.ProviderInterval)
	p = provider.NewRetryingProvider(p, cfg.ProviderRetries, cfg.ProviderBackoff, log)
	if store != nil {
		p = provider.NewCachedProvider(p, store, cfg.OfferCacheTTL, log)
	}
	return p
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting CathayPriceChecker v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("CathayPriceChecker %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start earning reloader (loads the table and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start earning reloader: %w", err)
	}
	a.logger.Info("earning reloader started",
		logger.Duration("interval", a.cfg.EarningReloadInterval))

	// Start history collector (if enabled)
	if a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			return fmt.Errorf("failed to start history collector: %w", err)
		}
		a.logger.Info("history collector started",
			logger.Duration("interval", a.cfg.HistoryPruneInterval),
			logger.Duration("retention", a.cfg.HistoryRetention))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	if a.collector != nil {
		a.collector.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warnf("failed to close postgres: %v", err)
		} else {
			a.logger.Info("✅ Postgres closed cleanly")
		}
	}

	a.logger.Info("✅ CathayPriceChecker stopped cleanly")
	return nil
}

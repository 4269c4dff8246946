package search

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/index"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/provider"
)

// Options bounds a run.
type Options struct {
	Workers          int           // concurrent provider calls
	Deadline         time.Duration // wall-clock budget of one run (0 = none)
	MaxOrigins       int           // cap on alternate origins
	DirectMaxResults int           // offers requested for the direct search
	FeederMaxResults int           // offers requested per synthesized search
	MaxResults       int           // default per-block truncation
	PreferredCarrier string
	Currency         string
}

// Recorder is notified of every completed run, for history and statistics.
type Recorder interface {
	Record(ctx context.Context, res *Result) error
}

// Engine orchestrates the direct search and the synthesized feeder searches.
type Engine struct {
	provider  provider.Provider
	tables    *index.Tables
	logger    logger.Logger
	opts      Options
	recorders []Recorder
	newID     func() string
	now       func() time.Time
}

func NewEngine(p provider.Provider, tables *index.Tables, log logger.Logger, opts Options, recorders ...Recorder) *Engine {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		provider:  p,
		tables:    tables,
		logger:    log,
		opts:      opts,
		recorders: recorders,
		newID:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
}

// Options returns the engine bounds.
func (e *Engine) Options() Options {
	return e.opts
}

// task is one provider call. variant is -1 for the direct search, otherwise
// the index into the origin's synthesized routes.
type task struct {
	origin  int
	variant int
	route   domain.RouteCandidate
}

type taskResult struct {
	task
	offers []domain.RawOffer
	err    error
}

// Run executes req. Only an invalid request or cancellation of ctx itself is
// an error; provider failures and an exhausted deadline, either the engine's
// or one carried by ctx, produce a partial result described by Coverage.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	req.Normalize(e.opts.Currency, e.opts.MaxResults)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snap := e.tables.Snapshot()
	origins, unknown := ResolveOrigins(req, e.opts.MaxOrigins)

	res := &Result{
		RunID:               e.newID(),
		Request:             req,
		StartedAt:           e.now(),
		EarningTableVersion: versionOf(snap.Earnings),
		Coverage:            newCoverage(origins, unknown),
	}

	runCtx := ctx
	if e.opts.Deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.opts.Deadline)
		defer cancel()
	}

	// routes[i][v] is variant v of origin i; feeders mirrors it with results.
	routes := make([][]domain.RouteCandidate, len(origins))
	feeders := make([][]domain.FeederResult, len(origins))
	for i, o := range origins {
		routes[i] = domain.BuildViaHubRoutes(o, req.Hub, req.Destination, req.Depart, req.Return)
		feeders[i] = make([]domain.FeederResult, len(routes[i]))
	}
	var direct []domain.RawOffer

	results := make(chan taskResult, e.opts.Workers)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range results {
			if r.variant < 0 {
				direct = r.offers
				res.Coverage.recordDirect(r.err)
				continue
			}
			feeders[r.origin][r.variant] = domain.FeederResult{
				AltOrigin: origins[r.origin],
				Hub:       req.Hub,
				Offers:    r.offers,
			}
			res.Coverage.recordFeeder(origins[r.origin], r.route.Key(), r.err)
		}
	}()

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	submit := func(t task) {
		g.Go(func() error {
			offers, err := e.call(runCtx, req, t)
			results <- taskResult{task: t, offers: offers, err: err}
			return nil
		})
	}

	submit(task{origin: -1, variant: -1})
	for i := range origins {
		for v, route := range routes[i] {
			submit(task{origin: i, variant: v, route: route})
		}
	}
	_ = g.Wait()
	close(results)
	<-collected

	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		return nil, err
	}
	res.Coverage.finish(errors.Is(runCtx.Err(), context.DeadlineExceeded))

	enricher := domain.Enricher{
		Airports:         snap.Airports,
		Zones:            snap.Zones,
		Table:            snap.Earnings,
		PreferredCarrier: e.opts.PreferredCarrier,
		FareOverride:     req.FareType,
		DefaultCurrency:  req.Currency,
	}
	flat := make([]domain.FeederResult, 0, len(origins)*len(domain.FeederDayOffsets)*len(domain.ReturnFeederDayOffsets))
	for i := range feeders {
		flat = append(flat, feeders[i]...)
	}
	res.Candidates = domain.Aggregate(direct, flat, domain.AggregateOptions{
		StrictCarrier:    req.StrictCarrier,
		PreferredCarrier: e.opts.PreferredCarrier,
		MaxResults:       req.MaxResults,
	}, enricher.Enrich)

	res.FinishedAt = e.now()
	res.Elapsed = res.FinishedAt.Sub(res.StartedAt)

	e.logger.Info("search run completed",
		logger.String("run_id", res.RunID),
		logger.String("hub", req.Hub),
		logger.String("destination", req.Destination),
		logger.Int("origins", len(origins)),
		logger.Int("searches", res.Coverage.Searches),
		logger.Int("failed_searches", res.Coverage.FailedSearches),
		logger.Int("candidates", len(res.Candidates)),
		logger.Bool("deadline_exceeded", res.Coverage.DeadlineExceeded),
		logger.Duration("elapsed", res.Elapsed))

	e.record(ctx, res)
	return res, nil
}

func (e *Engine) call(ctx context.Context, req Request, t task) ([]domain.RawOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.variant < 0 {
		ret := req.Return
		return e.provider.Search(ctx, provider.SearchRequest{
			Origin:        req.Hub,
			Destination:   req.Destination,
			DepartureDate: req.Depart,
			ReturnDate:    &ret,
			Adults:        req.Adults,
			Currency:      req.Currency,
			Cabin:         req.Cabin,
			NonStop:       req.NonStopDirect,
			Max:           e.opts.DirectMaxResults,
		})
	}
	return e.provider.SearchMultiCity(ctx, provider.MultiCityRequest{
		Legs:     t.route.Legs(),
		Adults:   req.Adults,
		Currency: req.Currency,
		Cabin:    req.Cabin,
		Max:      e.opts.FeederMaxResults,
	})
}

// record runs recorders on a context detached from the caller's so a client
// disconnect doesn't drop history.
func (e *Engine) record(ctx context.Context, res *Result) {
	if len(e.recorders) == 0 {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	for _, r := range e.recorders {
		if err := r.Record(rctx, res); err != nil {
			e.logger.Warn("failed to record search run",
				logger.String("run_id", res.RunID),
				logger.Error(err))
		}
	}
}

func versionOf(t *domain.EarningTable) *string {
	if t == nil || t.Version == nil {
		return nil
	}
	v := *t.Version
	return &v
}

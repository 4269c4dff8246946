package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/index"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/sources/earnings"
)

// EarningReloader handles periodic reloading of the earning table
type EarningReloader struct {
	loader        *earnings.Loader
	index         *index.Tables
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewEarningReloader creates a new earning table reloader
func NewEarningReloader(
	earningFile string,
	idx *index.Tables,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *EarningReloader {
	return &EarningReloader{
		loader:        earnings.NewLoader(earningFile),
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the table once and then reloads it periodically and on manual
// trigger. A broken file at startup leaves the empty table in place.
func (er *EarningReloader) Start(ctx context.Context) error {
	if er.interval <= 0 {
		return fmt.Errorf("reload interval must be > 0, got %v", er.interval)
	}

	er.index.UpdateEarnings(er.loader.LoadOrEmpty(er.logger))
	er.logLoaded()

	ticker := time.NewTicker(er.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := er.Reload(ctx); err != nil {
					er.logger.Error("failed to reload earning table",
						logger.Error(err))
				}
			case <-er.manualTrigger:
				er.logger.Info("manual reload triggered")
				if err := er.Reload(ctx); err != nil {
					er.logger.Error("failed to reload earning table",
						logger.Error(err))
				}
			case <-er.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (er *EarningReloader) Stop() {
	close(er.stopCh)
}

// Reload reads the earning file and swaps it into the index. A file that
// disappeared installs the empty table; a file that fails to parse keeps the
// current table.
func (er *EarningReloader) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	er.logger.Info("reloading earning table",
		logger.String("file", er.loader.Path()))

	table, err := er.loader.Load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		er.logger.Warn("earning table not found, reward estimates unavailable",
			logger.String("file", er.loader.Path()))
		table = domain.EmptyEarningTable()
	case err != nil:
		return fmt.Errorf("failed to load earning table, keeping version %q: %w",
			er.index.Earnings().VersionString(), err)
	}

	er.index.UpdateEarnings(table)
	er.logLoaded()
	return nil
}

func (er *EarningReloader) logLoaded() {
	er.logger.Info("earning table loaded",
		logger.String("version", er.index.Earnings().VersionString()),
		logger.Int("rules", er.index.RuleCount()))
}

package scheduler

import (
	"context"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

const (
	// DefaultHistoryRetention is how long stored search runs are kept
	DefaultHistoryRetention = 30 * 24 * time.Hour // 30 days
)

// RunPruner deletes stored search runs created before a cutoff
type RunPruner interface {
	PruneRuns(ctx context.Context, before time.Time) (int64, error)
}

// HistoryCollector handles cleanup of old search runs
type HistoryCollector struct {
	store     RunPruner
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewHistoryCollector creates a new history collector
func NewHistoryCollector(
	store RunPruner,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *HistoryCollector {
	if retention == 0 {
		retention = DefaultHistoryRetention
	}

	return &HistoryCollector{
		store:     store,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic collection process
func (hc *HistoryCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := hc.Collect(ctx); err != nil {
		hc.logger.Warn("initial history collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(hc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := hc.Collect(ctx); err != nil {
					hc.logger.Error("history collection failed",
						logger.Error(err))
				}
			case <-hc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (hc *HistoryCollector) Stop() {
	close(hc.stopCh)
}

// Collect removes runs older than the retention window
func (hc *HistoryCollector) Collect(ctx context.Context) error {
	cutoff := hc.now().Add(-hc.retention)

	deleted, err := hc.store.PruneRuns(ctx, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		hc.logger.Info("history collection completed",
			logger.Int64("runs_deleted", deleted),
			logger.String("cutoff", cutoff.Format(time.RFC3339)))
	} else {
		hc.logger.Debug("no search runs to collect")
	}
	return nil
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

type fakePruner struct {
	runs   []time.Time
	cutoff time.Time
	err    error
}

func (f *fakePruner) PruneRuns(_ context.Context, before time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.cutoff = before
	kept := f.runs[:0]
	var deleted int64
	for _, created := range f.runs {
		if created.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, created)
	}
	f.runs = kept
	return deleted, nil
}

func TestHistoryCollector_Collect(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakePruner{runs: []time.Time{
		now.Add(-time.Hour),           // fresh
		now.Add(-10 * 24 * time.Hour), // within retention
		now.Add(-35 * 24 * time.Hour), // expired
	}}

	hc := NewHistoryCollector(store, logger.New("error", false), 24*time.Hour, 30*24*time.Hour)
	hc.now = func() time.Time { return now }

	if err := hc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if len(store.runs) != 2 {
		t.Errorf("Expected 2 runs after collection, got %d", len(store.runs))
	}
	if want := now.Add(-30 * 24 * time.Hour); !store.cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", store.cutoff, want)
	}
}

func TestHistoryCollector_DefaultRetention(t *testing.T) {
	hc := NewHistoryCollector(&fakePruner{}, logger.Nop(), time.Hour, 0)
	if hc.retention != DefaultHistoryRetention {
		t.Errorf("retention = %v, want %v", hc.retention, DefaultHistoryRetention)
	}
}

func TestHistoryCollector_StoreError(t *testing.T) {
	hc := NewHistoryCollector(&fakePruner{err: errors.New("db down")}, logger.Nop(), time.Hour, time.Hour)
	if err := hc.Collect(context.Background()); err == nil {
		t.Error("Collect should surface the store error")
	}
}

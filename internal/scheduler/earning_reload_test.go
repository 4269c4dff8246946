package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/index"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

const tableV1 = `version: v1
rules:
  - zone: SHORT
    short_type: TYPE1
    cabin: ECONOMY
    fare_type: FLEX
    booking_classes: [Y]
    status_points: 20
    asia_miles: 1000
`

func writeTable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write earning table: %v", err)
	}
}

func newTestReloader(t *testing.T, path string) (*EarningReloader, *index.Tables, chan struct{}) {
	t.Helper()
	tables := index.NewTables(domain.Airports{}, domain.DefaultZoneClassifier())
	trigger := make(chan struct{}, 1)
	return NewEarningReloader(path, tables, logger.Nop(), time.Hour, trigger), tables, trigger
}

func TestEarningReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earning_table.yaml")
	writeTable(t, path, tableV1)
	er, tables, _ := newTestReloader(t, path)

	if err := er.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if tables.Earnings().VersionString() != "v1" || tables.RuleCount() != 1 {
		t.Errorf("index not updated: version %q, %d rules", tables.Earnings().VersionString(), tables.RuleCount())
	}

	writeTable(t, path, "rules: [broken\n")
	if err := er.Reload(context.Background()); err == nil {
		t.Error("Reload should fail on a broken file")
	}
	if tables.Earnings().VersionString() != "v1" {
		t.Error("a broken file must keep the current table")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := er.Reload(context.Background()); err != nil {
		t.Fatalf("Reload of a missing file should not fail: %v", err)
	}
	if tables.RuleCount() != 0 || tables.Earnings().Version != nil {
		t.Error("a missing file should install the empty table")
	}
}

func TestEarningReloader_StartAndTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earning_table.yaml")
	er, tables, trigger := newTestReloader(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := er.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer er.Stop()

	if tables.RuleCount() != 0 {
		t.Fatalf("missing file at startup should leave an empty table")
	}

	writeTable(t, path, tableV1)
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for tables.RuleCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if tables.RuleCount() != 1 {
		t.Error("manual trigger did not reload the table")
	}
}

func TestEarningReloader_InvalidInterval(t *testing.T) {
	tables := index.NewTables(nil, domain.DefaultZoneClassifier())
	er := NewEarningReloader("", tables, logger.Nop(), 0, nil)
	if err := er.Start(context.Background()); err == nil {
		t.Error("Start should reject a zero interval")
	}
}

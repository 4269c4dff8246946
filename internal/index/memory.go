package index

import (
	"sync"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
)

// Snapshot is a consistent, read-only view of the reference tables. A search
// takes one snapshot and uses it for its whole lifetime.
type Snapshot struct {
	Airports domain.Airports
	Zones    domain.ZoneClassifier
	Earnings *domain.EarningTable
}

// Tables holds the airport table, the zone classifier and the current
// earning table. Only the earning table is swapped at runtime.
type Tables struct {
	mu         sync.RWMutex
	airports   domain.Airports
	zones      domain.ZoneClassifier
	earnings   *domain.EarningTable
	lastReload time.Time // Timestamp of last earning table reload
}

// NewTables creates the index with an empty earning table
func NewTables(airports domain.Airports, zones domain.ZoneClassifier) *Tables {
	if airports == nil {
		airports = domain.Airports{}
	}
	return &Tables{
		airports: airports,
		zones:    zones,
		earnings: domain.EmptyEarningTable(),
	}
}

// UpdateEarnings replaces the earning table. The previous table is left
// untouched for searches still holding it.
func (t *Tables) UpdateEarnings(table *domain.EarningTable) {
	if table == nil {
		table = domain.EmptyEarningTable()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.earnings = table
	t.lastReload = time.Now()
}

// Snapshot returns the current tables
func (t *Tables) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return Snapshot{
		Airports: t.airports,
		Zones:    t.zones,
		Earnings: t.earnings,
	}
}

// Earnings returns the current earning table
func (t *Tables) Earnings() *domain.EarningTable {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.earnings
}

// AirportCount returns the number of airports in the reference table
func (t *Tables) AirportCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.airports)
}

// RuleCount returns the number of rules in the current earning table
func (t *Tables) RuleCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.earnings.Rules)
}

// GetLastReload returns the timestamp of the last earning table reload
func (t *Tables) GetLastReload() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.lastReload
}

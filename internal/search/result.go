package search

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
)

// Result is a completed run.
type Result struct {
	RunID               string                     `json:"run_id"`
	Request             Request                    `json:"request"`
	StartedAt           time.Time                  `json:"started_at"`
	FinishedAt          time.Time                  `json:"finished_at"`
	Elapsed             time.Duration              `json:"elapsed_ns"`
	EarningTableVersion *string                    `json:"earning_table_version"`
	Candidates          []domain.EnrichedCandidate `json:"candidates"`
	Coverage            Coverage                   `json:"coverage"`
}

// OriginHits counts ranked feeder candidates per alternate origin.
func (r *Result) OriginHits() map[string]int {
	hits := make(map[string]int)
	for _, c := range r.Candidates {
		if c.Routing == domain.RoutingViaHub {
			hits[c.AltOrigin]++
		}
	}
	return hits
}

// Failure is one provider call that returned no data.
type Failure struct {
	Origin string `json:"origin,omitempty"`
	Route  string `json:"route,omitempty"`
	Error  string `json:"error"`
}

// Coverage reports which parts of a run returned data. Only the collector
// goroutine writes it while the run is in flight.
type Coverage struct {
	OriginsQueried   []string  `json:"origins_queried"`
	OriginsSucceeded []string  `json:"origins_succeeded"`
	OriginsFailed    []string  `json:"origins_failed"`
	UnknownRegions   []string  `json:"unknown_regions,omitempty"`
	Searches         int       `json:"searches"`
	FailedSearches   int       `json:"failed_searches"`
	DirectOK         bool      `json:"direct_ok"`
	DeadlineExceeded bool      `json:"deadline_exceeded"`
	Failures         []Failure `json:"failures,omitempty"`

	succeeded map[string]bool
	timedOut  bool
}

func newCoverage(origins, unknownRegions []string) Coverage {
	queried := make([]string, len(origins))
	copy(queried, origins)
	return Coverage{
		OriginsQueried:   queried,
		OriginsSucceeded: []string{},
		OriginsFailed:    []string{},
		UnknownRegions:   unknownRegions,
		succeeded:        make(map[string]bool, len(origins)),
	}
}

func (c *Coverage) recordDirect(err error) {
	c.Searches++
	if err != nil {
		c.fail("", "", err)
		return
	}
	c.DirectOK = true
}

// recordFeeder marks origin as succeeded when any of its variants returned.
func (c *Coverage) recordFeeder(origin, route string, err error) {
	c.Searches++
	if _, seen := c.succeeded[origin]; !seen {
		c.succeeded[origin] = false
	}
	if err != nil {
		c.fail(origin, route, err)
		return
	}
	c.succeeded[origin] = true
}

func (c *Coverage) fail(origin, route string, err error) {
	c.FailedSearches++
	if errors.Is(err, context.DeadlineExceeded) {
		c.timedOut = true
	}
	c.Failures = append(c.Failures, Failure{Origin: origin, Route: route, Error: err.Error()})
}

// finish derives the origin lists in query order and sorts failures so the
// report does not depend on completion order.
func (c *Coverage) finish(deadlineHit bool) {
	for _, o := range c.OriginsQueried {
		if c.succeeded[o] {
			c.OriginsSucceeded = append(c.OriginsSucceeded, o)
		} else {
			c.OriginsFailed = append(c.OriginsFailed, o)
		}
	}
	c.DeadlineExceeded = deadlineHit && c.timedOut
	sort.SliceStable(c.Failures, func(i, j int) bool {
		if c.Failures[i].Origin != c.Failures[j].Origin {
			return c.Failures[i].Origin < c.Failures[j].Origin
		}
		return c.Failures[i].Route < c.Failures[j].Route
	})
}

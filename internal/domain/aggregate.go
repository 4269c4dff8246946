package domain

import (
	"sort"
	"strings"
)

// FeederResult is the raw output of one synthesized multi-city search.
type FeederResult struct {
	AltOrigin string
	Hub       string
	Offers    []RawOffer
}

// AggregateOptions controls ranking.
type AggregateOptions struct {
	// StrictCarrier keeps only offers flown entirely by PreferredCarrier.
	StrictCarrier    bool
	PreferredCarrier string
	// MaxResults truncates each block independently; <= 0 means no limit.
	MaxResults int
}

type feederEntry struct {
	altOrigin string
	hub       string
	offer     RawOffer
	price     float64
	priced    bool
}

// Aggregate merges the direct hub<->destination offers and the feeder search
// results into the final ranked list.
//
// The direct block keeps provider order and is narrowed to round trips with
// two non-stop directions when any exist. Feeder offers are de-duplicated by
// (alt origin, offer id) with the first occurrence kept, then sorted by price
// ascending with unparseable prices last. Each block is truncated to
// MaxResults and the direct block comes first.
func Aggregate(direct []RawOffer, feeders []FeederResult, opts AggregateOptions, enrich func(RawOffer) EnrichedCandidate) []EnrichedCandidate {
	keep := func(o RawOffer) bool {
		return !opts.StrictCarrier || IsSingleCarrier(o, opts.PreferredCarrier)
	}

	directBlock := make([]RawOffer, 0, len(direct))
	for _, o := range direct {
		if keep(o) {
			directBlock = append(directBlock, o)
		}
	}
	nonStop := make([]RawOffer, 0, len(directBlock))
	for _, o := range directBlock {
		if IsRoundTripNonStop(o) {
			nonStop = append(nonStop, o)
		}
	}
	if len(nonStop) > 0 {
		directBlock = nonStop
	}
	directBlock = truncate(directBlock, opts.MaxResults)

	type dedupKey struct{ origin, id string }
	seen := make(map[dedupKey]struct{})
	var feederBlock []feederEntry
	for _, fr := range feeders {
		origin := strings.ToUpper(fr.AltOrigin)
		for _, o := range fr.Offers {
			if !keep(o) {
				continue
			}
			k := dedupKey{origin: origin, id: o.ID}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			price, ok := ParsePrice(o.Price)
			feederBlock = append(feederBlock, feederEntry{
				altOrigin: origin,
				hub:       strings.ToUpper(fr.Hub),
				offer:     o,
				price:     price,
				priced:    ok,
			})
		}
	}
	sort.SliceStable(feederBlock, func(i, j int) bool {
		a, b := feederBlock[i], feederBlock[j]
		if a.priced != b.priced {
			return a.priced
		}
		return a.priced && a.price < b.price
	})
	feederBlock = truncate(feederBlock, opts.MaxResults)

	out := make([]EnrichedCandidate, 0, len(directBlock)+len(feederBlock))
	for _, o := range directBlock {
		c := enrich(o)
		c.Routing = RoutingDirect
		out = append(out, c)
	}
	for _, e := range feederBlock {
		c := enrich(e.offer)
		c.Routing = RoutingViaHub
		c.AltOrigin = e.altOrigin
		c.Hub = e.hub
		out = append(out, c)
	}
	return out
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

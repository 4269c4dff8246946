package redis

import (
	"context"
	"fmt"

	"github.com/mic325hkg/CathayPriceChecker/internal/search"
)

// RouteCount is one hub/destination pair and how often it was searched
type RouteCount struct {
	Hub         string `json:"hub"`
	Destination string `json:"destination"`
	Searches    int64  `json:"searches"`
}

// OriginCount is one alternate origin and how many ranked offers it produced
type OriginCount struct {
	Origin string `json:"origin"`
	Hits   int64  `json:"hits"`
}

// RecordSearch bumps the route counter and the per-origin hit counters of a
// completed run in one round trip
func (s *Store) RecordSearch(ctx context.Context, hub, dest string, originHits map[string]int) error {
	pipe := s.client.TxPipeline()
	pipe.ZIncrBy(ctx, KeyRouteSearches, 1, RouteMember(hub, dest))
	for origin, n := range originHits {
		if n > 0 {
			pipe.ZIncrBy(ctx, KeyOriginHits, float64(n), origin)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// TopRoutes returns the n most searched routes, busiest first
func (s *Store) TopRoutes(ctx context.Context, n int) ([]RouteCount, error) {
	if n <= 0 {
		return []RouteCount{}, nil
	}
	entries, err := s.client.ZRevRangeWithScores(ctx, KeyRouteSearches, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get route stats: %w", err)
	}

	out := make([]RouteCount, 0, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		hub, dest, err := ParseRouteMember(member)
		if err != nil {
			continue
		}
		out = append(out, RouteCount{Hub: hub, Destination: dest, Searches: int64(z.Score)})
	}
	return out, nil
}

// TopOrigins returns the n alternate origins with the most ranked offers
func (s *Store) TopOrigins(ctx context.Context, n int) ([]OriginCount, error) {
	if n <= 0 {
		return []OriginCount{}, nil
	}
	entries, err := s.client.ZRevRangeWithScores(ctx, KeyOriginHits, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get origin stats: %w", err)
	}

	out := make([]OriginCount, 0, len(entries))
	for _, z := range entries {
		if member, ok := z.Member.(string); ok {
			out = append(out, OriginCount{Origin: member, Hits: int64(z.Score)})
		}
	}
	return out, nil
}

// Record implements search.Recorder
func (s *Store) Record(ctx context.Context, res *search.Result) error {
	return s.RecordSearch(ctx, res.Request.Hub, res.Request.Destination, res.OriginHits())
}

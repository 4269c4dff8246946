package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
)

// SetOffers stores a provider response under its request hash
func (s *Store) SetOffers(ctx context.Context, hash string, offers []domain.RawOffer, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultOfferTTL
	}
	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("failed to marshal offers: %w", err)
	}
	if err := s.client.Set(ctx, OfferKey(hash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache offers: %w", err)
	}
	return nil
}

// GetOffers retrieves a cached provider response. A miss is not an error.
func (s *Store) GetOffers(ctx context.Context, hash string) ([]domain.RawOffer, bool, error) {
	data, err := s.client.Get(ctx, OfferKey(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached offers: %w", err)
	}

	var offers []domain.RawOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached offers: %w", err)
	}
	return offers, true, nil
}

// FlushOffers removes every cached provider response and returns how many
// keys were deleted
func (s *Store) FlushOffers(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixOffers+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete offer key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush offers: %w", err)
	}
	return deleted, nil
}

package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

// OfferCache stores provider responses by request hash.
type OfferCache interface {
	GetOffers(ctx context.Context, key string) ([]domain.RawOffer, bool, error)
	SetOffers(ctx context.Context, key string, offers []domain.RawOffer, ttl time.Duration) error
}

type cachedProvider struct {
	provider Provider
	cache    OfferCache
	ttl      time.Duration
	logger   logger.Logger
}

// NewCachedProvider serves repeated identical searches from cache. Cache
// failures are logged and fall through to p.
func NewCachedProvider(p Provider, cache OfferCache, ttl time.Duration, log logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &cachedProvider{provider: p, cache: cache, ttl: ttl, logger: log}
}

func (c *cachedProvider) Name() string {
	return c.provider.Name()
}

func (c *cachedProvider) Search(ctx context.Context, req SearchRequest) ([]domain.RawOffer, error) {
	key := RequestKey(c.provider.Name(), "rt", SearchQuery(req).Encode())
	return c.cached(ctx, key, func() ([]domain.RawOffer, error) {
		return c.provider.Search(ctx, req)
	})
}

func (c *cachedProvider) SearchMultiCity(ctx context.Context, req MultiCityRequest) ([]domain.RawOffer, error) {
	body, err := json.Marshal(BuildMultiCityBody(req))
	if err != nil {
		return c.provider.SearchMultiCity(ctx, req)
	}
	key := RequestKey(c.provider.Name(), "mc", string(body))
	return c.cached(ctx, key, func() ([]domain.RawOffer, error) {
		return c.provider.SearchMultiCity(ctx, req)
	})
}

func (c *cachedProvider) cached(ctx context.Context, key string, load func() ([]domain.RawOffer, error)) ([]domain.RawOffer, error) {
	offers, ok, err := c.cache.GetOffers(ctx, key)
	if err != nil {
		c.logger.Warn("offer cache read failed", logger.String("key", key), logger.Error(err))
	}
	if ok {
		return offers, nil
	}

	offers, err = load()
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetOffers(ctx, key, offers, c.ttl); err != nil {
		c.logger.Warn("offer cache write failed", logger.String("key", key), logger.Error(err))
	}
	return offers, nil
}

// RequestKey hashes the provider name, search kind and canonical request.
func RequestKey(provider, kind, canonical string) string {
	sum := sha256.Sum256([]byte(provider + "|" + kind + "|" + canonical))
	return hex.EncodeToString(sum[:16])
}

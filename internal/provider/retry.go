package provider

import (
	"context"
	"errors"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

type retryingProvider struct {
	provider Provider
	retries  int
	backoff  time.Duration
	logger   logger.Logger
}

// NewRetryingProvider repeats calls that fail with ErrTemporary up to retries
// more times, sleeping backoff before the first retry and doubling it after.
func NewRetryingProvider(p Provider, retries int, backoff time.Duration, log logger.Logger) Provider {
	if retries < 0 {
		retries = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &retryingProvider{provider: p, retries: retries, backoff: backoff, logger: log}
}

func (r *retryingProvider) Name() string {
	return r.provider.Name()
}

func (r *retryingProvider) Search(ctx context.Context, req SearchRequest) ([]domain.RawOffer, error) {
	return withRetry(ctx, r, func(ctx context.Context) ([]domain.RawOffer, error) {
		return r.provider.Search(ctx, req)
	})
}

func (r *retryingProvider) SearchMultiCity(ctx context.Context, req MultiCityRequest) ([]domain.RawOffer, error) {
	return withRetry(ctx, r, func(ctx context.Context) ([]domain.RawOffer, error) {
		return r.provider.SearchMultiCity(ctx, req)
	})
}

func withRetry(ctx context.Context, r *retryingProvider, call func(context.Context) ([]domain.RawOffer, error)) ([]domain.RawOffer, error) {
	backoff := r.backoff
	for attempt := 0; ; attempt++ {
		offers, err := call(ctx)
		if err == nil {
			return offers, nil
		}
		if !errors.Is(err, ErrTemporary) || attempt == r.retries {
			return nil, err
		}

		r.logger.Warn("provider call failed, retrying",
			logger.String("provider", r.provider.Name()),
			logger.Int("attempt", attempt+1),
			logger.Duration("next_retry_in", backoff),
			logger.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
			backoff *= 2
		}
	}
}

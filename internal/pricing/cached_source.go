package pricing

import (
	"context"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// CachedSource wraps a Source with the quote cache. History requests pass
// through uncached; they are only made for forecasts, not on every cycle.
type CachedSource struct {
	source Source
	cache  *QuoteCache
}

// NewCachedSource wraps source with cache.
func NewCachedSource(source Source, cache *QuoteCache) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache,
	}
}

// GetQuote returns a cached quote when one is fresh, otherwise fetches from
// the underlying source and caches the result. Fetch failures are not cached;
// the next cycle retries the symbol.
func (s *CachedSource) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	if quote, ok := s.cache.Get(symbol); ok {
		return quote, nil
	}

	quote, err := s.source.GetQuote(ctx, symbol)
	if err != nil {
		return model.Quote{}, err
	}

	s.cache.Put(symbol, quote)
	return quote, nil
}

// GetHistory delegates to the underlying source.
func (s *CachedSource) GetHistory(ctx context.Context, symbol string, period time.Duration) ([]model.PricePoint, error) {
	return s.source.GetHistory(ctx, symbol, period)
}

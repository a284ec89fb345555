package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/pricing"
	"github.com/stockguardian/stock-guardian-backend/internal/testutil"
)

// TestQuoteCache tests TTL-based caching of quotes.
//
// WHY: The cache TTL is the engine's staleness boundary. A quote must stay
// visible within the TTL and disappear after it, or cycles run against
// prices older than the policy allows.
func TestQuoteCache(t *testing.T) {
	t.Run("stores and retrieves a quote", func(t *testing.T) {
		cache, err := pricing.NewQuoteCache(time.Minute)
		if err != nil {
			t.Fatalf("NewQuoteCache() returned unexpected error: %v", err)
		}

		source := testutil.NewMockPriceSource().WithQuote("AAPL", 120)
		quote, _ := source.GetQuote(context.Background(), "AAPL")

		cache.Put("AAPL", quote)

		got, ok := cache.Get("AAPL")
		if !ok {
			t.Fatal("Expected the quote to be cached")
		}
		if got.Price != 120 {
			t.Errorf("Expected cached price 120, got %v", got.Price)
		}
	})

	t.Run("misses on an unknown symbol", func(t *testing.T) {
		cache, err := pricing.NewQuoteCache(time.Minute)
		if err != nil {
			t.Fatalf("NewQuoteCache() returned unexpected error: %v", err)
		}

		if _, ok := cache.Get("MSFT"); ok {
			t.Error("Expected a miss for an uncached symbol")
		}
	})

	t.Run("expires entries after the TTL", func(t *testing.T) {
		cache, err := pricing.NewQuoteCache(50 * time.Millisecond)
		if err != nil {
			t.Fatalf("NewQuoteCache() returned unexpected error: %v", err)
		}

		source := testutil.NewMockPriceSource().WithQuote("AAPL", 120)
		quote, _ := source.GetQuote(context.Background(), "AAPL")
		cache.Put("AAPL", quote)

		time.Sleep(100 * time.Millisecond)

		if _, ok := cache.Get("AAPL"); ok {
			t.Error("Expected the entry to expire after the TTL")
		}
	})
}

// TestCachedSource tests the caching decorator around a price source.
//
// WHY: Within one TTL window repeated quote requests must hit the feed once,
// and failures must not be cached so the next cycle can retry.
func TestCachedSource(t *testing.T) {
	t.Run("serves repeated requests from the cache", func(t *testing.T) {
		cache, err := pricing.NewQuoteCache(time.Minute)
		if err != nil {
			t.Fatalf("NewQuoteCache() returned unexpected error: %v", err)
		}

		mock := testutil.NewMockPriceSource().WithQuote("AAPL", 120)
		source := pricing.NewCachedSource(mock, cache)

		for i := 0; i < 3; i++ {
			quote, err := source.GetQuote(context.Background(), "AAPL")
			if err != nil {
				t.Fatalf("GetQuote() returned unexpected error: %v", err)
			}
			if quote.Price != 120 {
				t.Errorf("Expected price 120, got %v", quote.Price)
			}
		}

		if mock.QuoteCalls != 1 {
			t.Errorf("Expected one upstream fetch, got %d", mock.QuoteCalls)
		}
	})

	t.Run("does not cache failures", func(t *testing.T) {
		cache, err := pricing.NewQuoteCache(time.Minute)
		if err != nil {
			t.Fatalf("NewQuoteCache() returned unexpected error: %v", err)
		}

		mock := testutil.NewMockPriceSource().
			WithQuoteError("NOPE", apperrors.ErrQuoteUnavailable)
		source := pricing.NewCachedSource(mock, cache)

		for i := 0; i < 2; i++ {
			_, err := source.GetQuote(context.Background(), "NOPE")
			if !errors.Is(err, apperrors.ErrQuoteUnavailable) {
				t.Fatalf("Expected ErrQuoteUnavailable, got %v", err)
			}
		}

		// Both attempts reached the source; failures were never served from
		// the cache.
		if mock.QuoteCalls != 2 {
			t.Errorf("Expected two upstream fetches, got %d", mock.QuoteCalls)
		}
	})
}

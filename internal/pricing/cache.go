package pricing

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// QuoteCache is a TTL cache for quotes keyed by symbol. The TTL is the
// explicit staleness policy of the engine boundary (default 60s), stated in
// configuration rather than hidden in a caching decorator.
type QuoteCache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

// NewQuoteCache creates a quote cache with the given TTL.
func NewQuoteCache(ttl time.Duration) (*QuoteCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &QuoteCache{c: c, ttl: ttl}, nil
}

// Get returns the cached quote for a symbol, if present and unexpired.
func (q *QuoteCache) Get(symbol string) (model.Quote, bool) {
	v, ok := q.c.Get(symbol)
	if !ok {
		return model.Quote{}, false
	}
	quote, ok := v.(model.Quote)
	return quote, ok
}

// Put stores a quote under its symbol for the configured TTL.
func (q *QuoteCache) Put(symbol string, quote model.Quote) {
	q.c.SetWithTTL(symbol, quote, 1, q.ttl)
	// Sets are buffered; wait so the quote is visible to the next Get.
	q.c.Wait()
}

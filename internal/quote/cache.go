package quote

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// lookupSource is the upstream a cache wraps.
type lookupSource interface {
	Lookup(ctx context.Context, name string) (map[string]domain.Listing, error)
}

type lookupEntry struct {
	listings  map[string]domain.Listing
	expiresAt time.Time
}

// CachedLookup memoizes listing lookups with a TTL. Errors are not cached,
// so a transient upstream failure retries on the next call.
type CachedLookup struct {
	source lookupSource
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]lookupEntry
}

// NewCachedLookup wraps a lookup source with an in-memory TTL cache.
func NewCachedLookup(source lookupSource, ttl time.Duration) *CachedLookup {
	return &CachedLookup{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]lookupEntry),
	}
}

// Lookup returns the cached listings for name, falling through to the
// wrapped source on miss or expiry.
func (c *CachedLookup) Lookup(ctx context.Context, name string) (map[string]domain.Listing, error) {
	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.listings, nil
	}

	listings, err := c.source.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = lookupEntry{listings: listings, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return listings, nil
}

// priceSource is the upstream a price cache wraps.
type priceSource interface {
	ClosingPrices(ctx context.Context, tickers []string, start, end time.Time) (domain.PriceTable, error)
}

type priceEntry struct {
	table     domain.PriceTable
	expiresAt time.Time
}

// CachedPrices memoizes close-price batches keyed by ticker set and date
// range. Same policy as CachedLookup: errors pass through uncached.
type CachedPrices struct {
	source priceSource
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]priceEntry
}

// NewCachedPrices wraps a price source with an in-memory TTL cache.
func NewCachedPrices(source priceSource, ttl time.Duration) *CachedPrices {
	return &CachedPrices{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]priceEntry),
	}
}

// ClosingPrices returns the cached table for the request, falling through to
// the wrapped source on miss or expiry.
func (c *CachedPrices) ClosingPrices(ctx context.Context, tickers []string, start, end time.Time) (domain.PriceTable, error) {
	key := priceKey(tickers, start, end)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.table, nil
	}

	table, err := c.source.ClosingPrices(ctx, tickers, start, end)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = priceEntry{table: table, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return table, nil
}

func priceKey(tickers []string, start, end time.Time) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)
	return strings.Join(sorted, ",") + "|" + start.Format("2006-01-02") + "|" + end.Format("2006-01-02")
}

package collector

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"StockSentinel/internal/cache"
)

// CachedFetcher serves market capitalization from the fundamentals cache
// before hitting the underlying source. Bars are never cached: a scan always
// wants fresh history.
type CachedFetcher struct {
	Fetcher
	Cache cache.Cache
	TTL   time.Duration
}

func (c *CachedFetcher) MarketCap(symbol string) (decimal.Decimal, error) {
	ctx := context.Background()
	if v, ok := c.Cache.GetMarketCap(ctx, symbol); ok {
		return v, nil
	}
	v, err := c.Fetcher.MarketCap(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if err := c.Cache.SetMarketCap(ctx, symbol, v, c.TTL); err != nil {
		log.Printf("[WARN] cache market cap for %s: %v", symbol, err)
	}
	return v, nil
}

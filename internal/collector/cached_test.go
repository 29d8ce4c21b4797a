package collector

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
)

// countingFetcher tracks how often the underlying source is consulted.
type countingFetcher struct {
	MockFetcher
	capCalls int
}

func (c *countingFetcher) MarketCap(symbol string) (decimal.Decimal, error) {
	c.capCalls++
	return c.MockFetcher.MarketCap(symbol)
}

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	caps map[string]decimal.Decimal
}

func (m *mapCache) GetMarketCap(_ context.Context, symbol string) (decimal.Decimal, bool) {
	v, ok := m.caps[symbol]
	return v, ok
}

func (m *mapCache) SetMarketCap(_ context.Context, symbol string, marketCap decimal.Decimal, _ time.Duration) error {
	m.caps[symbol] = marketCap
	return nil
}

func (m *mapCache) Close() error { return nil }

func TestCachedFetcher_MarketCap(t *testing.T) {
	inner := &countingFetcher{
		MockFetcher: MockFetcher{
			Caps: map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(3_000_000_000)},
		},
	}
	cached := &CachedFetcher{
		Fetcher: inner,
		Cache:   &mapCache{caps: make(map[string]decimal.Decimal)},
		TTL:     time.Hour,
	}

	first, err := cached.MarketCap("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.MarketCap("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Equal(second) {
		t.Errorf("cached value differs: %s vs %s", first, second)
	}
	if inner.capCalls != 1 {
		t.Errorf("expected one source call, got %d", inner.capCalls)
	}
}

func TestCachedFetcher_PassesHistoryThrough(t *testing.T) {
	bars := []model.OHLCV{{Close: 42}}
	cached := &CachedFetcher{
		Fetcher: &MockFetcher{Bars: map[string][]model.OHLCV{"AAPL": bars}},
		Cache:   &mapCache{caps: make(map[string]decimal.Decimal)},
	}

	got, err := cached.History("AAPL", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Close != 42 {
		t.Errorf("unexpected bars: %+v", got)
	}
}

package cache

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Cache stores slow-moving fundamentals between scheduled scans so repeated
// runs do not refetch them from the data provider.
type Cache interface {
	GetMarketCap(ctx context.Context, symbol string) (decimal.Decimal, bool)
	SetMarketCap(ctx context.Context, symbol string, marketCap decimal.Decimal, ttl time.Duration) error
	Close() error
}

// Noop satisfies Cache when no cache backend is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) GetMarketCap(context.Context, string) (decimal.Decimal, bool) {
	return decimal.Zero, false
}

func (*Noop) SetMarketCap(context.Context, string, decimal.Decimal, time.Duration) error {
	return nil
}

func (*Noop) Close() error { return nil }

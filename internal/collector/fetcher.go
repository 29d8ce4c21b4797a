package collector

import (
	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
)

// Fetcher defines the interface for per-ticker market data.
type Fetcher interface {
	// History returns up to `days` daily bars in chronological order.
	// An empty slice means the symbol has no data.
	History(symbol string, days int) ([]model.OHLCV, error)
	// MarketCap returns the point-in-time market capitalization.
	// Zero means unavailable; it fails the cap floor downstream.
	MarketCap(symbol string) (decimal.Decimal, error)
	// ImpliedVolatility returns an at-the-money IV estimate, nil when the
	// source has no option data for the symbol.
	ImpliedVolatility(symbol string) (*float64, error)
	Name() string
}

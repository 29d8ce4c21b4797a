package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TickerSnapshot holds everything fetched for one ticker during a scan pass.
// It lives for a single classification and is never persisted directly.
type TickerSnapshot struct {
	Symbol     string
	Bars       []OHLCV
	MarketCap  decimal.Decimal
	ImpliedVol *float64
	FetchedAt  time.Time
}

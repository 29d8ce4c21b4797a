package model

import "github.com/shopspring/decimal"

// Signal labels a ticker after classification.
type Signal string

const (
	SignalNone          Signal = ""
	SignalOversold      Signal = "OVERSOLD"
	SignalOverbought    Signal = "OVERBOUGHT"
	SignalSellPut       Signal = "SELL_PUT"
	SignalSellCall      Signal = "SELL_CALL"
	SignalTrendConflict Signal = "TREND_CONFLICT"
)

// LowSide reports whether the signal belongs in the low-RSI report column.
func (s Signal) LowSide() bool {
	return s == SignalOversold || s == SignalSellPut
}

// HighSide reports whether the signal belongs in the high-RSI report column.
func (s Signal) HighSide() bool {
	return s == SignalOverbought || s == SignalSellCall
}

// Match is one classified ticker in the scan's match set.
type Match struct {
	Symbol     string
	RSI        float64
	Close      float64
	MA50       float64
	MA200      float64
	MarketCap  decimal.Decimal
	ImpliedVol *float64
	Signal     Signal
}

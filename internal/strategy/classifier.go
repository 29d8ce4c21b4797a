package strategy

import (
	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
)

// Mode selects the classification rule set.
type Mode string

const (
	// ModeSimple flags raw RSI threshold crossings.
	ModeSimple Mode = "simple"
	// ModeTrendConfirmed only flags crossings that agree with the
	// MA50/MA200 trend state.
	ModeTrendConfirmed Mode = "trend"
)

// Thresholds are scan-wide constants, fixed before a scan starts.
type Thresholds struct {
	RSIUpper     float64
	RSILower     float64
	MinMarketCap decimal.Decimal
}

// Inputs carries the per-ticker values the classifier consumes. MA50 and
// MA200 are only consulted in trend-confirmed mode.
type Inputs struct {
	Symbol     string
	RSI        float64
	Close      float64
	MA50       float64
	MA200      float64
	MarketCap  decimal.Decimal
	ImpliedVol *float64
}

// Classifier assigns at most one signal per ticker.
type Classifier struct {
	Mode       Mode
	Thresholds Thresholds
}

// Classify returns the signal for one ticker and whether it belongs in the
// match set.
//
// Simple mode treats the market-cap floor and the RSI threshold as one
// compound condition. Trend-confirmed mode accepts a signal on trend
// agreement first and applies the cap floor as a second, independent filter;
// a threshold crossing without trend agreement comes back as
// SignalTrendConflict with ok=false and is dropped, never reported.
func (c *Classifier) Classify(in Inputs) (model.Match, bool) {
	m := model.Match{
		Symbol:     in.Symbol,
		RSI:        in.RSI,
		Close:      in.Close,
		MA50:       in.MA50,
		MA200:      in.MA200,
		MarketCap:  in.MarketCap,
		ImpliedVol: in.ImpliedVol,
	}

	if c.Mode == ModeTrendConfirmed {
		switch {
		case in.RSI < c.Thresholds.RSILower && in.Close > in.MA200 && in.Close > in.MA50:
			m.Signal = model.SignalSellPut
		case in.RSI > c.Thresholds.RSIUpper && in.Close < in.MA200 && in.Close < in.MA50:
			m.Signal = model.SignalSellCall
		case in.RSI < c.Thresholds.RSILower || in.RSI > c.Thresholds.RSIUpper:
			m.Signal = model.SignalTrendConflict
			return m, false
		default:
			return m, false
		}
		if !c.capOK(in.MarketCap) {
			return m, false
		}
		return m, true
	}

	if c.capOK(in.MarketCap) && in.RSI < c.Thresholds.RSILower {
		m.Signal = model.SignalOversold
		return m, true
	}
	if c.capOK(in.MarketCap) && in.RSI > c.Thresholds.RSIUpper {
		m.Signal = model.SignalOverbought
		return m, true
	}
	return m, false
}

func (c *Classifier) capOK(marketCap decimal.Decimal) bool {
	return marketCap.GreaterThanOrEqual(c.Thresholds.MinMarketCap)
}

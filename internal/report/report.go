package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
	"StockSentinel/internal/strategy"
)

// Report is the two-column ranked view of a scan's match set. The low side
// holds oversold / sell-put matches ordered by RSI ascending; the high side
// holds overbought / sell-call matches ordered descending, so the most
// extreme reading of each side leads.
type Report struct {
	Mode strategy.Mode
	Low  []model.Match
	High []model.Match
}

// Build partitions the match set by signal polarity and ranks each side.
// Ties on RSI fall back to symbol order so an unchanged snapshot always
// produces an identical report.
func Build(matches []model.Match, mode strategy.Mode) *Report {
	r := &Report{Mode: mode}
	for _, m := range matches {
		switch {
		case m.Signal.LowSide():
			r.Low = append(r.Low, m)
		case m.Signal.HighSide():
			r.High = append(r.High, m)
		}
	}
	sort.Slice(r.Low, func(i, j int) bool {
		if r.Low[i].RSI != r.Low[j].RSI {
			return r.Low[i].RSI < r.Low[j].RSI
		}
		return r.Low[i].Symbol < r.Low[j].Symbol
	})
	sort.Slice(r.High, func(i, j int) bool {
		if r.High[i].RSI != r.High[j].RSI {
			return r.High[i].RSI > r.High[j].RSI
		}
		return r.High[i].Symbol < r.High[j].Symbol
	})
	return r
}

// Empty reports whether the report holds no matches at all.
func (r *Report) Empty() bool {
	return len(r.Low) == 0 && len(r.High) == 0
}

// Rows is the merged row count: both sides are padded to the longer one.
func (r *Report) Rows() int {
	if len(r.Low) > len(r.High) {
		return len(r.Low)
	}
	return len(r.High)
}

// Header returns the column header row: low-side fields, a blank spacer
// column, then high-side fields.
func (r *Report) Header() []string {
	lowLabel, highLabel := "Oversold Ticker", "Overbought Ticker"
	if r.Mode == strategy.ModeTrendConfirmed {
		lowLabel, highLabel = "Sell Put Ticker", "Sell Call Ticker"
	}
	return []string{
		lowLabel, "RSI", "Market Cap (B)", "IV",
		"",
		highLabel, "RSI", "Market Cap (B)", "IV",
	}
}

// Records returns one row per rank position, with empty cells where a side
// has fewer entries than its counterpart. An empty report yields no rows.
func (r *Report) Records() [][]string {
	rows := r.Rows()
	records := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		row := make([]string, 0, 9)
		row = append(row, sideCells(r.Low, i)...)
		row = append(row, "")
		row = append(row, sideCells(r.High, i)...)
		records = append(records, row)
	}
	return records
}

func sideCells(side []model.Match, i int) []string {
	if i >= len(side) {
		return []string{"", "", "", ""}
	}
	m := side[i]
	return []string{m.Symbol, formatRSI(m.RSI), formatCapBillions(m.MarketCap), formatIV(m.ImpliedVol)}
}

func formatRSI(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var billion = decimal.NewFromInt(1_000_000_000)

func formatCapBillions(marketCap decimal.Decimal) string {
	return marketCap.Div(billion).Round(2).String()
}

func formatIV(iv *float64) string {
	if iv == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *iv)
}

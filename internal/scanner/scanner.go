package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
	"StockSentinel/internal/strategy"
)

// Trend windows for the confirmation filter.
const (
	maShortWindow = 50
	maLongWindow  = 200
)

// Outcome classifies one ticker's pass through the scan loop.
type Outcome int

const (
	OutcomeMatched Outcome = iota
	OutcomeNoSignal
	OutcomeSkipped
	OutcomeFailed
)

// Stats aggregates per-ticker outcomes for one scan run.
type Stats struct {
	Universe int
	Scanned  int
	Matched  int
	Skipped  int
	Failed   int
}

// Scanner drives the strictly sequential per-ticker loop.
type Scanner struct {
	Fetcher    collector.Fetcher
	Classifier *strategy.Classifier
	RSIPeriod  int
	Lookback   int           // daily bars requested per ticker
	Delay      time.Duration // blocking pause after each processed ticker
	FetchIV    bool
}

// Scan classifies every ticker in the universe. Failures and data gaps are
// confined to the ticker they occur on; the loop always runs to completion
// unless the context is cancelled.
func (s *Scanner) Scan(ctx context.Context, tickers []string) ([]model.Match, Stats) {
	stats := Stats{Universe: len(tickers)}
	var matches []model.Match

	for _, symbol := range tickers {
		select {
		case <-ctx.Done():
			log.Printf("[WARN] scan interrupted after %d of %d tickers", stats.Scanned, stats.Universe)
			return matches, stats
		default:
		}

		match, outcome, err := s.scanOne(symbol)
		stats.Scanned++
		switch outcome {
		case OutcomeMatched:
			matches = append(matches, match)
			stats.Matched++
			log.Printf("[INFO] %s: %s (RSI %.2f)", symbol, match.Signal, match.RSI)
		case OutcomeSkipped:
			stats.Skipped++
		case OutcomeFailed:
			stats.Failed++
			log.Printf("[WARN] %s: %v", symbol, err)
			continue // failed fetches are neither rate-limited nor retried
		}
		s.pause(ctx)
	}
	return matches, stats
}

func (s *Scanner) scanOne(symbol string) (model.Match, Outcome, error) {
	snap, err := s.fetchSnapshot(symbol)
	if err != nil {
		return model.Match{}, OutcomeFailed, err
	}

	rsi, ok := calculator.LatestRSI(snap.Bars, s.RSIPeriod)
	if !ok {
		return model.Match{}, OutcomeSkipped, nil
	}

	in := strategy.Inputs{
		Symbol: snap.Symbol,
		RSI:    rsi,
		Close:  snap.Bars[len(snap.Bars)-1].Close,
	}

	if s.Classifier.Mode == strategy.ModeTrendConfirmed {
		ma50, ok50 := calculator.LatestSMA(snap.Bars, maShortWindow)
		ma200, ok200 := calculator.LatestSMA(snap.Bars, maLongWindow)
		if !ok50 || !ok200 {
			return model.Match{}, OutcomeSkipped, nil
		}
		in.MA50, in.MA200 = ma50, ma200
	}

	// Fundamentals are fetched only once the indicator gates pass, so a
	// skipped ticker costs a single request.
	s.fetchFundamentals(snap)
	in.MarketCap = snap.MarketCap
	in.ImpliedVol = snap.ImpliedVol

	match, ok := s.Classifier.Classify(in)
	if !ok {
		return match, OutcomeNoSignal, nil
	}
	return match, OutcomeMatched, nil
}

func (s *Scanner) fetchSnapshot(symbol string) (*model.TickerSnapshot, error) {
	bars, err := s.Fetcher.History(symbol, s.Lookback)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &model.TickerSnapshot{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

func (s *Scanner) fetchFundamentals(snap *model.TickerSnapshot) {
	marketCap, err := s.Fetcher.MarketCap(snap.Symbol)
	if err != nil {
		// A missing cap fails the floor; it never fails the scan.
		log.Printf("[WARN] %s: market cap unavailable: %v", snap.Symbol, err)
		marketCap = decimal.Zero
	}
	snap.MarketCap = marketCap

	if s.FetchIV {
		if iv, err := s.Fetcher.ImpliedVolatility(snap.Symbol); err != nil {
			log.Printf("[WARN] %s: implied volatility unavailable: %v", snap.Symbol, err)
		} else {
			snap.ImpliedVol = iv
		}
	}
}

func (s *Scanner) pause(ctx context.Context) {
	if s.Delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.Delay):
	}
}

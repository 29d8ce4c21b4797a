package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/report"
	"StockSentinel/internal/strategy"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: base.AddDate(0, 0, i), Close: c}
	}
	return bars
}

func decreasingCloses(n int, start float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start - float64(i)
	}
	return closes
}

func alternatingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 50 + float64(i%2)
	}
	return closes
}

func simpleClassifier() *strategy.Classifier {
	return &strategy.Classifier{
		Mode: strategy.ModeSimple,
		Thresholds: strategy.Thresholds{
			RSIUpper:     80,
			RSILower:     20,
			MinMarketCap: decimal.NewFromFloat(1e9),
		},
	}
}

func TestScan_MixedOutcomes(t *testing.T) {
	bigCap := decimal.NewFromFloat(2e9)
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"DOWN":  barsFromCloses(decreasingCloses(20, 100)), // RSI 0, oversold
			"SHORT": barsFromCloses([]float64{10, 11, 12}),     // too little history
			"FLAT":  barsFromCloses(alternatingCloses(20)),     // RSI 50, no signal
		},
		Caps: map[string]decimal.Decimal{
			"DOWN": bigCap,
			"FLAT": bigCap,
		},
		HistoryErr: map[string]error{
			"ERR": errors.New("upstream 502"),
		},
	}

	s := &Scanner{
		Fetcher:    fetcher,
		Classifier: simpleClassifier(),
		RSIPeriod:  14,
		Lookback:   30,
	}

	matches, stats := s.Scan(context.Background(), []string{"DOWN", "SHORT", "ERR", "FLAT"})

	assert.Equal(t, Stats{Universe: 4, Scanned: 4, Matched: 1, Skipped: 1, Failed: 1}, stats)
	require.Len(t, matches, 1)
	assert.Equal(t, "DOWN", matches[0].Symbol)
	assert.Equal(t, model.SignalOversold, matches[0].Signal)
	assert.Equal(t, 0.0, matches[0].RSI)
	assert.True(t, matches[0].MarketCap.Equal(bigCap))
}

func TestScan_SmallCapExcluded(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"TINY": barsFromCloses(decreasingCloses(20, 100)),
		},
		Caps: map[string]decimal.Decimal{
			"TINY": decimal.NewFromFloat(5e8),
		},
	}
	s := &Scanner{Fetcher: fetcher, Classifier: simpleClassifier(), RSIPeriod: 14, Lookback: 30}

	matches, stats := s.Scan(context.Background(), []string{"TINY"})

	assert.Empty(t, matches)
	assert.Equal(t, Stats{Universe: 1, Scanned: 1}, stats)
}

func TestScan_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scanner{
		Fetcher:    &collector.MockFetcher{},
		Classifier: simpleClassifier(),
		RSIPeriod:  14,
		Lookback:   30,
	}

	matches, stats := s.Scan(ctx, []string{"AAPL", "MSFT"})

	assert.Empty(t, matches)
	assert.Equal(t, 2, stats.Universe)
	assert.Equal(t, 0, stats.Scanned)
}

// risingThenFadingCloses ramps for riseN bars, then drifts down slightly so
// the latest close stays above both moving averages while the short-window
// RSI bottoms out.
func risingThenFadingCloses(riseN, fadeN int) []float64 {
	closes := make([]float64, 0, riseN+fadeN)
	for i := 0; i < riseN; i++ {
		closes = append(closes, 10+90*float64(i)/float64(riseN-1))
	}
	for i := 1; i <= fadeN; i++ {
		closes = append(closes, 100-0.1*float64(i))
	}
	return closes
}

func TestScan_TrendConfirmedSellPut(t *testing.T) {
	cls := simpleClassifier()
	cls.Mode = strategy.ModeTrendConfirmed

	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"UPTR": barsFromCloses(risingThenFadingCloses(245, 15)),
		},
		Caps: map[string]decimal.Decimal{
			"UPTR": decimal.NewFromFloat(3e9),
		},
	}
	s := &Scanner{Fetcher: fetcher, Classifier: cls, RSIPeriod: 14, Lookback: 260}

	matches, stats := s.Scan(context.Background(), []string{"UPTR"})

	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, model.SignalSellPut, m.Signal)
	assert.Less(t, m.RSI, 20.0)
	assert.Greater(t, m.Close, m.MA50)
	assert.Greater(t, m.Close, m.MA200)
	assert.Equal(t, 1, stats.Matched)
}

func TestScan_TrendConflictExcluded(t *testing.T) {
	cls := simpleClassifier()
	cls.Mode = strategy.ModeTrendConfirmed

	// Oversold RSI but the close sits below both moving averages: a raw
	// crossing without trend agreement never reaches the match set.
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"DNTR": barsFromCloses(decreasingCloses(260, 400)),
		},
		Caps: map[string]decimal.Decimal{
			"DNTR": decimal.NewFromFloat(3e9),
		},
	}
	s := &Scanner{Fetcher: fetcher, Classifier: cls, RSIPeriod: 14, Lookback: 260}

	matches, stats := s.Scan(context.Background(), []string{"DNTR"})

	assert.Empty(t, matches)
	assert.Equal(t, Stats{Universe: 1, Scanned: 1}, stats)
}

func TestScan_TrendModeSkipsShortHistory(t *testing.T) {
	cls := simpleClassifier()
	cls.Mode = strategy.ModeTrendConfirmed

	// Enough bars for RSI but not for MA200.
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"MIDH": barsFromCloses(decreasingCloses(60, 100)),
		},
	}
	s := &Scanner{Fetcher: fetcher, Classifier: cls, RSIPeriod: 14, Lookback: 260}

	matches, stats := s.Scan(context.Background(), []string{"MIDH"})

	assert.Empty(t, matches)
	assert.Equal(t, 1, stats.Skipped)
}

type staticUniverse []string

func (u staticUniverse) Tickers() []string { return u }

type recordingSink struct {
	writes int
	path   string
	last   *report.Report
}

func (s *recordingSink) Write(r *report.Report, path string) error {
	s.writes++
	s.path = path
	s.last = r
	return nil
}

type recordingNotifier struct {
	attachments []string
}

func (n *recordingNotifier) Configured() bool { return true }

func (n *recordingNotifier) Send(_, _, attachmentPath string) error {
	n.attachments = append(n.attachments, attachmentPath)
	return nil
}

type recordingRecorder struct {
	runs []recorder.ScanRun
}

func (r *recordingRecorder) RecordRun(run *recorder.ScanRun, _ []model.Match) error {
	r.runs = append(r.runs, *run)
	return nil
}

func (r *recordingRecorder) Close() error { return nil }

func newTestPipeline(fetcher collector.Fetcher, tickers []string) (*Pipeline, *recordingSink, *recordingNotifier, *recordingRecorder) {
	sink := &recordingSink{}
	notif := &recordingNotifier{}
	rec := &recordingRecorder{}
	p := &Pipeline{
		Universe: staticUniverse(tickers),
		Scanner: &Scanner{
			Fetcher:    fetcher,
			Classifier: simpleClassifier(),
			RSIPeriod:  14,
			Lookback:   30,
		},
		Sink:       sink,
		ReportPath: "scan_results.csv",
		Notifier:   notif,
		Recorder:   rec,
	}
	return p, sink, notif, rec
}

func TestPipeline_EmptyScanWritesNothing(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"A": barsFromCloses([]float64{10, 11}),
			"B": nil,
		},
	}
	p, sink, notif, rec := newTestPipeline(fetcher, []string{"A", "B"})

	require.NoError(t, p.Run(context.Background()))

	assert.Zero(t, sink.writes, "empty scan must not produce a report file")
	assert.Empty(t, notif.attachments, "empty scan must not send mail")
	require.Len(t, rec.runs, 1)
	assert.Equal(t, 0, rec.runs[0].Matched)
	assert.Equal(t, 2, rec.runs[0].Skipped)
	assert.Empty(t, rec.runs[0].ReportPath)
}

func TestPipeline_MatchedScanWritesAndNotifies(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"DOWN": barsFromCloses(decreasingCloses(20, 100)),
		},
		Caps: map[string]decimal.Decimal{
			"DOWN": decimal.NewFromFloat(2e9),
		},
	}
	p, sink, notif, rec := newTestPipeline(fetcher, []string{"DOWN"})

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 1, sink.writes)
	assert.Equal(t, "scan_results.csv", sink.path)
	require.NotNil(t, sink.last)
	require.Len(t, sink.last.Low, 1)
	assert.Equal(t, "DOWN", sink.last.Low[0].Symbol)

	assert.Equal(t, []string{"scan_results.csv"}, notif.attachments)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, 1, rec.runs[0].Matched)
	assert.Equal(t, "scan_results.csv", rec.runs[0].ReportPath)
}

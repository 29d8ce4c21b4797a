package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockSentinel/internal/recorder"
	"StockSentinel/internal/report"
)

// Universe provides the ticker symbols for one scan run.
type Universe interface {
	Tickers() []string
}

// ReportSink persists an assembled report.
type ReportSink interface {
	Write(r *report.Report, path string) error
}

// Notifier delivers a finished report. Delivery is best-effort.
type Notifier interface {
	Configured() bool
	Send(subject, body, attachmentPath string) error
}

// Pipeline runs one full scan: universe, per-ticker loop, report assembly,
// persistence, notification.
type Pipeline struct {
	Universe   Universe
	Scanner    *Scanner
	Sink       ReportSink
	ReportPath string
	Notifier   Notifier
	Recorder   recorder.Recorder
}

// Run executes a single scan pass. It always reaches the reporting step;
// with zero matches no file is written and no mail is sent.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	tickers := p.Universe.Tickers()
	log.Printf("[INFO] scanning %d tickers", len(tickers))

	matches, stats := p.Scanner.Scan(ctx, tickers)
	rep := report.Build(matches, p.Scanner.Classifier.Mode)

	reportPath := ""
	if rep.Empty() {
		log.Println("[INFO] no matching stocks found")
	} else {
		if err := p.Sink.Write(rep, p.ReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		reportPath = p.ReportPath
		log.Printf("[INFO] %d matching stocks saved to %s", stats.Matched, reportPath)
	}

	if err := p.Recorder.RecordRun(&recorder.ScanRun{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Mode:       string(p.Scanner.Classifier.Mode),
		Universe:   stats.Universe,
		Scanned:    stats.Scanned,
		Matched:    stats.Matched,
		Skipped:    stats.Skipped,
		Failed:     stats.Failed,
		ReportPath: reportPath,
	}, matches); err != nil {
		log.Printf("[ERROR] record scan run: %v", err)
	}

	if reportPath != "" && p.Notifier != nil && p.Notifier.Configured() {
		subject := fmt.Sprintf("Stock scan results %s", started.Format("2006-01-02"))
		body := fmt.Sprintf("%d matching stocks out of %d scanned (%d skipped, %d failed).",
			stats.Matched, stats.Scanned, stats.Skipped, stats.Failed)
		if err := p.Notifier.Send(subject, body, reportPath); err != nil {
			log.Printf("[ERROR] send report mail: %v", err)
		}
	}

	log.Printf("[INFO] scan finished in %s: %d matched, %d skipped, %d failed",
		time.Since(started).Round(time.Second), stats.Matched, stats.Skipped, stats.Failed)
	return nil
}

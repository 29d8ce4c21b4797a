package recorder

import (
	"time"

	"StockSentinel/internal/model"
)

// ScanRun summarizes one complete pass over the ticker universe.
type ScanRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Mode       string
	Universe   int
	Scanned    int
	Matched    int
	Skipped    int
	Failed     int
	ReportPath string
}

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordRun(run *ScanRun, matches []model.Match) error
	Close() error
}

package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSink writes reports as comma-delimited files with a header row.
type CSVSink struct{}

// Write renders the report to path. Callers should not invoke it for an
// empty report; a "no matches" run writes no file at all.
func (CSVSink) Write(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(r.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, record := range r.Records() {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

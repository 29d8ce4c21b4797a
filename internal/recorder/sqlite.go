package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"StockSentinel/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at    INTEGER NOT NULL,
			finished_at   INTEGER NOT NULL,
			mode          TEXT,
			universe_size INTEGER,
			scanned       INTEGER,
			matched       INTEGER,
			skipped       INTEGER,
			failed        INTEGER,
			report_path   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS scan_matches (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER NOT NULL REFERENCES scan_runs(id),
			symbol      TEXT NOT NULL,
			signal      TEXT NOT NULL,
			rsi         REAL,
			close_price REAL,
			ma50        REAL,
			ma200       REAL,
			market_cap  TEXT,
			implied_vol REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run ON scan_matches(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *ScanRun, matches []model.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO scan_runs
		(started_at, finished_at, mode, universe_size, scanned, matched, skipped, failed, report_path)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Mode,
		run.Universe, run.Scanned, run.Matched, run.Skipped, run.Failed,
		run.ReportPath,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, m := range matches {
		var iv interface{}
		if m.ImpliedVol != nil {
			iv = *m.ImpliedVol
		}
		if _, err := tx.Exec(`INSERT INTO scan_matches
			(run_id, symbol, signal, rsi, close_price, ma50, ma200, market_cap, implied_vol)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID, m.Symbol, string(m.Signal), m.RSI, m.Close,
			m.MA50, m.MA200, m.MarketCap.String(), iv,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

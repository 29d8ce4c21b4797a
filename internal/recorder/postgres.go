package recorder

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"StockSentinel/internal/model"
)

// PostgresRecorder persists scan history to PostgreSQL.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects to the database and runs migrations.
func NewPostgresRecorder(ctx context.Context, connString string) (*PostgresRecorder, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id            BIGSERIAL PRIMARY KEY,
			started_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL,
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
			id          BIGSERIAL PRIMARY KEY,
			run_id      BIGINT NOT NULL REFERENCES scan_runs(id),
			symbol      TEXT NOT NULL,
			signal      TEXT NOT NULL,
			rsi         DOUBLE PRECISION,
			close_price DOUBLE PRECISION,
			ma50        DOUBLE PRECISION,
			ma200       DOUBLE PRECISION,
			market_cap  NUMERIC,
			implied_vol DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run ON scan_matches(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordRun(run *ScanRun, matches []model.Match) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, `INSERT INTO scan_runs
		(started_at, finished_at, mode, universe_size, scanned, matched, skipped, failed, report_path)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		run.StartedAt, run.FinishedAt, run.Mode,
		run.Universe, run.Scanned, run.Matched, run.Skipped, run.Failed,
		run.ReportPath,
	).Scan(&runID)
	if err != nil {
		return err
	}

	for _, m := range matches {
		var iv *float64
		if m.ImpliedVol != nil {
			v := *m.ImpliedVol
			iv = &v
		}
		if _, err := tx.Exec(ctx, `INSERT INTO scan_matches
			(run_id, symbol, signal, rsi, close_price, ma50, ma200, market_cap, implied_vol)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			runID, m.Symbol, string(m.Signal), m.RSI, m.Close,
			m.MA50, m.MA200, m.MarketCap.String(), iv,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	r.pool.Close()
	return nil
}

package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tanhoa/autotrade/backtest"
	"github.com/tanhoa/autotrade/market"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// RecordRun persists the run header plus every signalled ledger row in
// one transaction. Non-signalled bars are not stored; they carry nothing
// but their cumulative PnL, which the signalled rows already determine.
func (j *SQLite) RecordRun(run Run, led *backtest.Ledger) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created, instrument, mode, config, bars, wins, losses, open, skipped, pnl_rate, rate_defined, total_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created, run.Instrument, run.Mode, run.Config,
		run.Bars, run.Wins, run.Losses, run.Open, run.Skipped,
		run.PnLRate, run.RateDefined, run.TotalPnL,
	)
	if err != nil {
		return fmt.Errorf("journal: insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO ledger
		(run_id, idx, time, signal, entry_price, sl, tp, lot_size, close_at, price_diff, pnl, capital, level, daily_total, cumulative_pnl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range led.Rows {
		if r.Signal == market.None {
			continue
		}
		_, err := stmt.Exec(
			run.RunID, r.Index, r.Time, int(r.Signal),
			r.EntryPrice, r.SL, r.TP, r.LotSize,
			r.ClosedAt, r.PriceDiff, r.PnL,
			r.Capital, r.Level, r.DailyTotal, r.CumulativePnL, r.Reason,
		)
		if err != nil {
			return fmt.Errorf("journal: insert ledger row %d: %w", r.Index, err)
		}
	}

	return tx.Commit()
}

// GetRun returns a single run header by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created, instrument, mode, config, bars, wins, losses, open, skipped, pnl_rate, rate_defined, total_pnl
		FROM runs WHERE run_id = ?`, runID)

	var r Run
	err := row.Scan(&r.RunID, &r.Created, &r.Instrument, &r.Mode, &r.Config,
		&r.Bars, &r.Wins, &r.Losses, &r.Open, &r.Skipped,
		&r.PnLRate, &r.RateDefined, &r.TotalPnL)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("journal: run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns run headers, newest first.
func (j *SQLite) ListRuns() ([]Run, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, instrument, mode, config, bars, wins, losses, open, skipped, pnl_rate, rate_defined, total_pnl
		FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Created, &r.Instrument, &r.Mode, &r.Config,
			&r.Bars, &r.Wins, &r.Losses, &r.Open, &r.Skipped,
			&r.PnLRate, &r.RateDefined, &r.TotalPnL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LedgerRows returns the stored signalled rows of a run in index order.
func (j *SQLite) LedgerRows(runID string) ([]backtest.Row, error) {
	rows, err := j.db.Query(`
		SELECT idx, time, signal, entry_price, sl, tp, lot_size, close_at, price_diff, pnl, capital, level, daily_total, cumulative_pnl, reason
		FROM ledger WHERE run_id = ? ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.Row
	for rows.Next() {
		var r backtest.Row
		var sig int
		if err := rows.Scan(&r.Index, &r.Time, &sig,
			&r.EntryPrice, &r.SL, &r.TP, &r.LotSize,
			&r.ClosedAt, &r.PriceDiff, &r.PnL,
			&r.Capital, &r.Level, &r.DailyTotal, &r.CumulativePnL, &r.Reason); err != nil {
			return nil, err
		}
		r.Signal = market.Signal(sig)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

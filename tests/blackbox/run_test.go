//go:build blackbox

package blackbox

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// One winning long (takes profit at 110) and one short left open at
// series end: wins 1, losses 0, rate undefined, total PnL +5.
const barsCSV = `time,open,high,low,close,signal
2024-03-04T09:00:00Z,100,101,99,100,0
2024-03-04T09:05:00Z,105,106,104,105,1
2024-03-04T09:10:00Z,108,111,101,108,0
2024-03-04T09:15:00Z,107,108,105,107,-1
2024-03-04T09:20:00Z,106,112,104,106,0
`

func writeRunConfig(t *testing.T, dir, barsPath string) string {
	t.Helper()
	cfgPath := filepath.Join(dir, "backtest.yaml")
	writeFile(t, cfgPath, `
instrument: XAUUSD
data:
  bars: `+barsPath+`
levels:
  min_sl: 5
  min_tp: 5
  lot_standard: 1
engine:
  contract_multiplier: 1
sizing:
  mode: fixed
  fixed_lot: 1
`)
	return cfgPath
}

func TestRun_WritesLedgerAndJournal(t *testing.T) {
	dir := t.TempDir()
	barsPath := filepath.Join(dir, "bars.csv")
	ledgerPath := filepath.Join(dir, "ledger.csv")
	dbPath := filepath.Join(dir, "runs.sqlite")

	writeFile(t, barsPath, barsCSV)
	cfgPath := writeRunConfig(t, dir, barsPath)

	out := run(t,
		"run",
		"-c", cfgPath,
		"--ledger", ledgerPath,
		"--db", dbPath,
	)

	if !contains(out, "Profit orders: 1") {
		t.Fatalf("expected one profit order, got:\n%s", out)
	}
	if !contains(out, "Loss orders: 0") {
		t.Fatalf("expected no loss orders, got:\n%s", out)
	}
	if !contains(out, "Still open: 1") {
		t.Fatalf("expected one open order, got:\n%s", out)
	}
	if !contains(out, "PnL rate: n/a") {
		t.Fatalf("expected undefined rate, got:\n%s", out)
	}
	if !contains(out, "Total PnL: 5.00") {
		t.Fatalf("expected total PnL 5.00, got:\n%s", out)
	}

	ledger, err := os.ReadFile(ledgerPath)
	if err != nil {
		t.Fatal(err)
	}
	if !contains(string(ledger), "TAKE") || !contains(string(ledger), "OPEN") {
		t.Fatalf("ledger missing expected rows:\n%s", ledger)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var runs, wins int
	if err := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(wins), 0) FROM runs`).Scan(&runs, &wins); err != nil {
		t.Fatal(err)
	}
	if runs != 1 || wins != 1 {
		t.Fatalf("expected 1 run with 1 win, got runs=%d wins=%d", runs, wins)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ledger`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 2 { // only signalled bars are journaled
		t.Fatalf("expected 2 journaled ledger rows, got %d", rows)
	}
}

func TestSummary_ListsRecordedRuns(t *testing.T) {
	dir := t.TempDir()
	barsPath := filepath.Join(dir, "bars.csv")
	dbPath := filepath.Join(dir, "runs.sqlite")

	writeFile(t, barsPath, barsCSV)
	cfgPath := writeRunConfig(t, dir, barsPath)

	run(t, "run", "-c", cfgPath, "--db", dbPath)

	out := run(t, "summary", "--db", dbPath)
	if !contains(out, "XAUUSD") || !contains(out, "fixed") {
		t.Fatalf("expected run listing, got:\n%s", out)
	}
}

func TestConfig_InitAndCheck(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "default.yaml")

	out := run(t, "config", "--init", cfgPath)
	if !contains(out, "Wrote default config") {
		t.Fatalf("unexpected init output:\n%s", out)
	}

	out = run(t, "config", "--check", cfgPath)
	if !contains(out, "OK") {
		t.Fatalf("expected config to validate, got:\n%s", out)
	}
}

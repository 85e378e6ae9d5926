package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/tanhoa/autotrade/backtest"
)

var ledgerHeader = []string{
	"index", "time", "signal", "entry_price", "sl", "tp", "lot_size",
	"close_at", "price_diff", "pnl", "capital", "level", "daily_total",
	"cumulative_pnl", "reason",
}

// ExportLedgerCSV writes the full ledger, one line per input bar, to
// path. The exact column layout is presentation; the engine's row values
// pass through untouched.
func ExportLedgerCSV(path string, led *backtest.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLedgerCSV(f, led); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteLedgerCSV writes the ledger rows to w in CSV form.
func WriteLedgerCSV(w io.Writer, led *backtest.Ledger) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}

	for _, r := range led.Rows {
		rec := []string{
			strconv.Itoa(r.Index),
			r.Time.Format(time.RFC3339),
			strconv.Itoa(int(r.Signal)),
			f(r.EntryPrice),
			f(r.SL),
			f(r.TP),
			f(r.LotSize),
			strconv.Itoa(r.ClosedAt),
			f(r.PriceDiff),
			f(r.PnL),
			f(r.Capital),
			strconv.Itoa(r.Level),
			f(r.DailyTotal),
			f(r.CumulativePnL),
			r.Reason,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

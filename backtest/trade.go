package backtest

import (
	"time"

	"github.com/tanhoa/autotrade/market"
)

// Side: +1 long, -1 short.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "SHORT"
	}
	return "LONG"
}

// Close reasons recorded on ledger rows.
const (
	ReasonStop         = "STOP"          // SL breached on a continuation bar
	ReasonTake         = "TAKE"          // TP breached on a continuation bar
	ReasonReversalStop = "REVERSAL-STOP" // reversal bar, SL breached first
	ReasonReversal     = "REVERSAL"      // reversal bar, closed at its close
	ReasonOpen         = "OPEN"          // scan exhausted the series, trade never closed
	ReasonNoSizing     = "NO-SIZING"     // sizing provider had no lot for this trade
	ReasonDailyTarget  = "DAILY-TARGET"  // daily target already met, signal skipped
)

// Trade is the outcome of replaying one signalled bar. It is built by the
// forward scan and immutable once ClosedAt is set. ClosedAt is a bar
// index; 0 means the trade never closed (a real close index is always
// at least OpenedAt+1, so 0 is unambiguous).
type Trade struct {
	OpenedAt   int
	Side       Side
	EntryPrice float64
	SL         float64 // final stop after any ladder adjustments
	TP         float64 // final target after any ladder adjustments
	LotSize    float64
	ClosedAt   int
	ExitPrice  float64
	PriceDiff  float64 // direction-signed exit-entry distance
	PnL        float64
	FiredRules int
	Reason     string
}

func (t Trade) Closed() bool { return t.ClosedAt != 0 }

// Row is one ledger line, aligned with the input series: bar identity,
// the trade outcome if a trade opened here, and the sizing audit trail
// (capital, level) captured at open time.
type Row struct {
	Index  int
	Time   time.Time
	Signal market.Signal

	EntryPrice float64
	SL         float64
	TP         float64
	LotSize    float64
	ClosedAt   int
	PriceDiff  float64
	PnL        float64
	Reason     string

	Capital       float64
	Level         int
	DailyTotal    float64
	CumulativePnL float64
}

// Ledger is the append-only collection of per-bar outcomes for one run.
// One row per input bar; rows are never mutated after their trade closes.
type Ledger struct {
	Rows []Row
}

// Total returns the final cumulative PnL.
func (l *Ledger) Total() float64 {
	if len(l.Rows) == 0 {
		return 0
	}
	return l.Rows[len(l.Rows)-1].CumulativePnL
}

// Trades returns the rows on which a trade actually opened.
func (l *Ledger) Trades() []Row {
	var out []Row
	for _, r := range l.Rows {
		if r.Signal != market.None && r.Reason != ReasonDailyTarget && r.Reason != ReasonNoSizing && r.Reason != "" {
			out = append(out, r)
		}
	}
	return out
}

func rowFromTrade(t Trade) Row {
	return Row{
		EntryPrice: t.EntryPrice,
		SL:         t.SL,
		TP:         t.TP,
		LotSize:    t.LotSize,
		ClosedAt:   t.ClosedAt,
		PriceDiff:  t.PriceDiff,
		PnL:        t.PnL,
		Reason:     t.Reason,
	}
}

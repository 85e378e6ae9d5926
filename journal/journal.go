package journal

import (
	"time"

	"github.com/tanhoa/autotrade/backtest"
)

// Run is the persisted record of one backtest run: identity, the config
// snapshot it ran with, and its summary numbers.
type Run struct {
	RunID      string
	Created    time.Time
	Instrument string
	Mode       string
	Config     []byte // config snapshot, as given to the engine

	Bars    int
	Wins    int
	Losses  int
	Open    int
	Skipped int

	PnLRate     float64
	RateDefined bool
	TotalPnL    float64
}

// Journal persists runs and their ledgers.
type Journal interface {
	RecordRun(Run, *backtest.Ledger) error
	Close() error
}

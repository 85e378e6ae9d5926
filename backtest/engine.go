package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/tanhoa/autotrade/market"
)

// Sizer chooses the lot size for a trade about to open. capital is the
// account capital recomputed from already-resolved trades; level is the
// daily-target ladder level. Implementations use whichever input their
// table keys on. An error means no sizing is available; the engine records
// the signal as NO-SIZING and keeps going.
type Sizer interface {
	LotSize(capital float64, level int) (float64, error)
}

// FixedSizer always returns the same lot. The plain price-diff backtest
// uses lot 1 with contract multiplier 1.
type FixedSizer struct {
	Lot float64
}

func (s FixedSizer) LotSize(float64, int) (float64, error) { return s.Lot, nil }

// DailyMetric selects what the daily-target controller accumulates.
type DailyMetric int

const (
	// DailyPriceDiff accumulates the direction-signed price distance of
	// each trade (the compounding variant's gauge).
	DailyPriceDiff DailyMetric = iota
	// DailyPnL accumulates realized PnL.
	DailyPnL
)

// Config is the engine's full configuration surface. No process-wide
// state: one Config value per run.
type Config struct {
	Rules []TrailingRule

	// ContractMultiplier scales PnL per price unit per lot. 1 yields
	// plain price-diff PnL.
	ContractMultiplier float64

	InitCapital float64

	// DailyTarget suspends new entries for the rest of a calendar day
	// once the daily total reaches it, advancing the sizing level once
	// per day. 0 disables the controller.
	DailyTarget float64
	DailyMetric DailyMetric

	// UseEntryPrice opens trades at the bar's synthetic entry_price
	// instead of its close.
	UseEntryPrice bool

	// Optimize enables the rolling-extrema breach scan. Only effective
	// with an empty ladder; laddered runs always take the reference
	// path because rung firings move SL/TP bar by bar.
	Optimize bool
}

// Engine resolves every signalled bar of a series into a Trade. Each
// signalled bar spawns its own independent hypothetical trade: the engine
// deliberately does not enforce at-most-one-open-position, so trades may
// overlap, and the compounding capital for a new trade counts only trades
// already closed strictly before its open index. This models "what if
// every signal had been taken" and is preserved behavior, not a bug to
// fix; see TestOverlappingTradesAreIndependent.
type Engine struct {
	series *market.Series
	levels []Levels
	sizer  Sizer
	cfg    Config

	ext *extrema // lazily built when the optimized scan is usable
}

func NewEngine(s *market.Series, levels []Levels, sizer Sizer, cfg Config) *Engine {
	if cfg.ContractMultiplier == 0 {
		cfg.ContractMultiplier = 1
	}
	if sizer == nil {
		sizer = FixedSizer{Lot: 1}
	}
	return &Engine{series: s, levels: levels, sizer: sizer, cfg: cfg}
}

// dailyState is the daily-target controller's per-day bookkeeping,
// reset whenever the bar date changes.
type dailyState struct {
	date     time.Time
	total    float64
	level    int
	advanced bool
}

// Run replays the whole series and returns the ledger. The scan for each
// signalled bar completes before the next one is sized, so capital-tier
// sizing sees a consistent view of resolved trades. Cancellation is
// honored between signalled-bar resolutions; the ledger is simply not
// returned, no partial-trade state needs rollback.
func (e *Engine) Run(ctx context.Context) (*Ledger, error) {
	if e.series == nil {
		return nil, fmt.Errorf("backtest: nil series")
	}
	if err := e.series.Validate(); err != nil {
		return nil, err
	}
	if len(e.levels) != e.series.Len() {
		return nil, fmt.Errorf("backtest: levels length %d does not match series length %d",
			len(e.levels), e.series.Len())
	}

	if e.cfg.Optimize && len(e.cfg.Rules) == 0 {
		e.ext = newExtrema(e.series)
	}

	n := e.series.Len()
	led := &Ledger{Rows: make([]Row, n)}
	day := dailyState{level: 1}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bar := e.series.Bars[i]
		led.Rows[i].Index = i
		led.Rows[i].Time = bar.Time
		led.Rows[i].Signal = bar.Signal

		if e.cfg.DailyTarget > 0 {
			if d := e.series.Date(i); !d.Equal(day.date) {
				day.date = d
				day.total = 0
				day.advanced = false
			}
			if day.total >= e.cfg.DailyTarget {
				if !day.advanced {
					day.level++
					day.advanced = true
				}
				if bar.Signal != market.None {
					led.Rows[i].Reason = ReasonDailyTarget
					led.Rows[i].Level = day.level
				}
				continue
			}
		}

		if bar.Signal == market.None {
			continue
		}
		if !e.levels[i].Set {
			return nil, fmt.Errorf("backtest: bar %d signalled but has no SL/TP levels", i)
		}

		capital := e.capitalBefore(led, i)

		lot, err := e.sizer.LotSize(capital, day.level)
		if err != nil {
			led.Rows[i].Reason = ReasonNoSizing
			led.Rows[i].Capital = capital
			led.Rows[i].Level = day.level
			continue
		}

		tr := e.simulate(i, lot)

		row := rowFromTrade(tr)
		row.Index = i
		row.Time = bar.Time
		row.Signal = bar.Signal
		row.Capital = capital
		row.Level = day.level
		led.Rows[i] = row

		if e.cfg.DailyTarget > 0 {
			switch e.cfg.DailyMetric {
			case DailyPnL:
				day.total += tr.PnL
			default:
				day.total += tr.PriceDiff
			}
			led.Rows[i].DailyTotal = day.total
		}
	}

	cum := 0.0
	for i := range led.Rows {
		cum += led.Rows[i].PnL
		led.Rows[i].CumulativePnL = cum
	}

	return led, nil
}

// capitalBefore recomputes the account capital available to the trade
// opening at index i: initial capital plus the PnL of every trade whose
// close index falls strictly before i. Trades still open (ClosedAt 0) or
// closing at i or later contribute nothing, whatever their eventual PnL.
func (e *Engine) capitalBefore(led *Ledger, i int) float64 {
	capital := e.cfg.InitCapital
	for j := 0; j < i; j++ {
		if c := led.Rows[j].ClosedAt; c > 0 && c < i {
			capital += led.Rows[j].PnL
		}
	}
	return capital
}

// simulate opens a hypothetical trade at bar i and scans forward until an
// exit fires or the series ends. Exit priority on a continuation bar:
// long checks SL then TP, short checks TP then SL. A reversal bar always
// terminates the trade: at SL if breached, otherwise at the bar's close.
// Breach tests are strict comparisons against the bar's low/high.
func (e *Engine) simulate(i int, lot float64) Trade {
	bar := e.series.Bars[i]
	side := Side(bar.Signal)

	entry := bar.Close
	if e.cfg.UseEntryPrice {
		entry = bar.EntryPrice
	}

	tr := Trade{
		OpenedAt:   i,
		Side:       side,
		EntryPrice: entry,
		LotSize:    lot,
		Reason:     ReasonOpen,
	}

	sl := e.levels[i].SL
	tp := e.levels[i].TP

	if e.ext != nil {
		return e.fastScan(tr, sl, tp)
	}

	lad := newLadder(e.cfg.Rules)

	for j := i + 1; j < e.series.Len(); j++ {
		b := e.series.Bars[j]

		if bar.Signal.Opposes(b.Signal) {
			if breachesSL(side, b, sl) {
				e.close(&tr, j, sl, ReasonReversalStop)
			} else {
				e.close(&tr, j, b.Close, ReasonReversal)
			}
			break
		}

		if side == Long {
			if b.Low < sl {
				e.close(&tr, j, sl, ReasonStop)
				break
			}
			if b.High > tp {
				e.close(&tr, j, tp, ReasonTake)
				break
			}
		} else {
			if b.Low < tp {
				e.close(&tr, j, tp, ReasonTake)
				break
			}
			if b.High > sl {
				e.close(&tr, j, sl, ReasonStop)
				break
			}
		}

		lad.apply(side, entry, b.Close, &sl, &tp)
	}

	tr.SL = sl
	tr.TP = tp
	tr.FiredRules = lad.firedCount()
	return tr
}

// close finalizes tr at bar j with the given exit price. After this the
// trade is immutable.
func (e *Engine) close(tr *Trade, j int, exit float64, reason string) {
	tr.ClosedAt = j
	tr.ExitPrice = exit
	tr.PriceDiff = float64(tr.Side) * (exit - tr.EntryPrice)
	tr.PnL = tr.PriceDiff * tr.LotSize * e.cfg.ContractMultiplier
	tr.Reason = reason
}

func breachesSL(side Side, b market.Bar, sl float64) bool {
	if side == Long {
		return b.Low < sl
	}
	return b.High > sl
}

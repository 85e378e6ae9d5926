package backtest

import (
	"fmt"

	"github.com/tanhoa/autotrade/market"
)

// LevelConfig controls how initial stop-loss and take-profit prices are
// derived for each signalled bar.
type LevelConfig struct {
	MinSL float64 // minimum stop distance, in strategy points
	MinTP float64 // minimum target distance, in strategy points

	// LotStandard converts strategy points to price units. Offsets are
	// MinSL*LotStandard and MinTP*LotStandard away from the reference.
	LotStandard float64

	// UseEntryPrice makes the bar's EntryPrice the reference instead of
	// its close (used when the signal generator computed a synthetic
	// entry level).
	UseEntryPrice bool
}

// Levels is the SL/TP pair attached to a signalled bar. Set is false for
// bars without a signal; no trade opens there.
type Levels struct {
	SL  float64
	TP  float64
	Set bool
}

// ComputeLevels annotates every signalled bar with its initial SL/TP
// prices. Longs put SL below and TP above the reference; shorts mirror.
// Pure function of its inputs; the series is not modified.
func ComputeLevels(s *market.Series, cfg LevelConfig) ([]Levels, error) {
	if cfg.LotStandard == 0 {
		return nil, fmt.Errorf("backtest: LotStandard must be non-zero")
	}

	slOff := cfg.MinSL * cfg.LotStandard
	tpOff := cfg.MinTP * cfg.LotStandard

	out := make([]Levels, len(s.Bars))
	for i, b := range s.Bars {
		if b.Signal == market.None {
			continue
		}

		ref := b.Close
		if cfg.UseEntryPrice {
			if b.EntryPrice == 0 {
				return nil, fmt.Errorf("backtest: bar %d signalled but has no entry_price", i)
			}
			ref = b.EntryPrice
		}

		switch b.Signal {
		case market.Buy:
			out[i] = Levels{SL: ref - slOff, TP: ref + tpOff, Set: true}
		case market.Sell:
			out[i] = Levels{SL: ref + slOff, TP: ref - tpOff, Set: true}
		}
	}
	return out, nil
}

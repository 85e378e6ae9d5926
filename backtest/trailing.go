package backtest

// TrailingRule is one rung of the trailing-stop ladder. Once price has
// moved Threshold in the trade's favor beyond entry, the stop ratchets to
// entry±SLAdjustment and the target moves TPAdjustment further out.
// List order is application priority; several rungs can fire on the same
// bar, each at most once per trade.
type TrailingRule struct {
	Threshold    float64 `json:"threshold" yaml:"threshold"`
	SLAdjustment float64 `json:"sl_adjustment" yaml:"sl_adjustment"`
	TPAdjustment float64 `json:"tp_adjustment" yaml:"tp_adjustment"`
}

// ladder tracks which rungs have fired for a single simulated trade.
// The fired flags are positional, so ladder depth is arbitrary.
type ladder struct {
	rules []TrailingRule
	fired []bool
}

func newLadder(rules []TrailingRule) *ladder {
	return &ladder{
		rules: rules,
		fired: make([]bool, len(rules)),
	}
}

// apply fires every unfired rung whose threshold the bar close has
// crossed, adjusting sl and tp in place. The stop is set relative to
// entry whether or not that tightens the current stop.
func (l *ladder) apply(side Side, entry, close float64, sl, tp *float64) {
	for i, r := range l.rules {
		if l.fired[i] {
			continue
		}
		switch side {
		case Long:
			if close > entry+r.Threshold {
				*sl = entry + r.SLAdjustment
				*tp += r.TPAdjustment
				l.fired[i] = true
			}
		case Short:
			if close < entry-r.Threshold {
				*sl = entry - r.SLAdjustment
				*tp -= r.TPAdjustment
				l.fired[i] = true
			}
		}
	}
}

func (l *ladder) firedCount() int {
	n := 0
	for _, f := range l.fired {
		if f {
			n++
		}
	}
	return n
}

package backtest

import (
	"errors"
	"time"

	"github.com/tanhoa/autotrade/market"
)

var base = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// mkSeries builds a series with bars spaced five minutes apart starting
// at base. Bars keep whatever Time they already carry (the daily-target
// tests set their own dates).
func mkSeries(bars ...market.Bar) *market.Series {
	for i := range bars {
		if bars[i].Time.IsZero() {
			bars[i].Time = base.Add(time.Duration(i) * 5 * time.Minute)
		}
	}
	return &market.Series{Instrument: "XAUUSD", Bars: bars}
}

// flat returns a continuation bar that can neither stop nor target a
// trade riding between lo and hi.
func flat(lo, hi, close float64) market.Bar {
	return market.Bar{Open: close, High: hi, Low: lo, Close: close}
}

func sig(s market.Signal, lo, hi, close float64) market.Bar {
	return market.Bar{Open: close, High: hi, Low: lo, Close: close, Signal: s}
}

// captureSizer records the capital and level the engine passes in.
type captureSizer struct {
	lot      float64
	capitals []float64
	levels   []int
}

func (s *captureSizer) LotSize(capital float64, level int) (float64, error) {
	s.capitals = append(s.capitals, capital)
	s.levels = append(s.levels, level)
	return s.lot, nil
}

// failSizer always reports that no sizing is available.
type failSizer struct{}

func (failSizer) LotSize(float64, int) (float64, error) {
	return 0, errors.New("no sizing available")
}

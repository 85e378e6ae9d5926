package market

import (
	"fmt"
	"time"
)

// Series is an ordered sequence of bars. Index order is the only ordering
// the simulation relies on; times are carried for reporting and for the
// daily controller's calendar-date handling, never re-sorted.
type Series struct {
	Instrument string
	Bars       []Bar
}

func (s *Series) Len() int { return len(s.Bars) }

// Date returns the calendar date (UTC) of bar idx.
func (s *Series) Date(idx int) time.Time {
	t := s.Bars[idx].Time.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate checks the series is fit for simulation. Any failure here is
// fatal for the run: the engine refuses to simulate partial or disordered
// data rather than produce a silently corrupt ledger.
func (s *Series) Validate() error {
	if len(s.Bars) == 0 {
		return fmt.Errorf("market: empty series")
	}

	var prev time.Time
	for i, b := range s.Bars {
		if b.Time.IsZero() {
			return fmt.Errorf("market: bar %d has no timestamp", i)
		}
		if i > 0 && !b.Time.After(prev) {
			return fmt.Errorf("market: bar %d time %s is not after bar %d (%s)",
				i, b.Time.Format(time.RFC3339), i-1, prev.Format(time.RFC3339))
		}
		prev = b.Time

		if b.High < b.Low {
			return fmt.Errorf("market: bar %d high %v below low %v", i, b.High, b.Low)
		}
		switch b.Signal {
		case Buy, Sell, None:
		default:
			return fmt.Errorf("market: bar %d has signal %d, want -1, 0 or 1", i, b.Signal)
		}
	}
	return nil
}

// Signalled returns the indices of bars carrying a non-zero signal.
func (s *Series) Signalled() []int {
	var idx []int
	for i, b := range s.Bars {
		if b.Signal != None {
			idx = append(idx, i)
		}
	}
	return idx
}

package backtest

// Summary aggregates win/loss counts from a resolved ledger.
//
// PnLRate is profit orders over loss orders. With zero losing trades the
// ratio is undefined: RateDefined is false and PnLRate is zero, never a
// division result. Display policy for the undefined case belongs to the
// caller.
type Summary struct {
	ProfitOrders int
	LossOrders   int
	OpenOrders   int
	Skipped      int
	PnLRate      float64
	RateDefined  bool
	TotalPnL     float64
}

// Summarize computes the win/loss summary over every row of the ledger.
// Rows with zero PnL (no trade, or a trade that never closed) count
// toward neither side.
func (l *Ledger) Summarize() Summary {
	var s Summary
	for _, r := range l.Rows {
		switch {
		case r.PnL > 0:
			s.ProfitOrders++
		case r.PnL < 0:
			s.LossOrders++
		}
		switch r.Reason {
		case ReasonOpen:
			s.OpenOrders++
		case ReasonDailyTarget, ReasonNoSizing:
			s.Skipped++
		}
	}
	if s.LossOrders > 0 {
		s.PnLRate = float64(s.ProfitOrders) / float64(s.LossOrders)
		s.RateDefined = true
	}
	s.TotalPnL = l.Total()
	return s
}

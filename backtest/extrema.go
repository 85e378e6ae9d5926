package backtest

import (
	"math/bits"

	"github.com/tanhoa/autotrade/market"
)

// extrema holds sparse tables over bar lows/highs plus next-signal
// indexes, letting the scan binary-search the first breach bar instead of
// walking every bar. Usable only when the trailing ladder is empty: SL/TP
// are then constant for the life of a trade, and the first breach/reversal
// bar fully determines the exit. Produces ledgers identical to the
// reference scan (see TestOptimizedScanMatchesReference).
type extrema struct {
	s *market.Series

	minLow  [][]float64
	maxHigh [][]float64

	nextBuy  []int // smallest j >= i with a buy signal, len(bars) if none
	nextSell []int
}

func newExtrema(s *market.Series) *extrema {
	n := s.Len()
	e := &extrema{s: s}

	levels := 1
	if n > 1 {
		levels = bits.Len(uint(n)) // floor(log2(n)) + 1
	}

	e.minLow = make([][]float64, levels)
	e.maxHigh = make([][]float64, levels)
	e.minLow[0] = make([]float64, n)
	e.maxHigh[0] = make([]float64, n)
	for i, b := range s.Bars {
		e.minLow[0][i] = b.Low
		e.maxHigh[0][i] = b.High
	}
	for k := 1; k < levels; k++ {
		span := 1 << k
		m := n - span + 1
		if m <= 0 {
			break
		}
		e.minLow[k] = make([]float64, m)
		e.maxHigh[k] = make([]float64, m)
		for i := 0; i < m; i++ {
			e.minLow[k][i] = minf(e.minLow[k-1][i], e.minLow[k-1][i+span/2])
			e.maxHigh[k][i] = maxf(e.maxHigh[k-1][i], e.maxHigh[k-1][i+span/2])
		}
	}

	e.nextBuy = make([]int, n+1)
	e.nextSell = make([]int, n+1)
	e.nextBuy[n] = n
	e.nextSell[n] = n
	for i := n - 1; i >= 0; i-- {
		e.nextBuy[i] = e.nextBuy[i+1]
		e.nextSell[i] = e.nextSell[i+1]
		switch s.Bars[i].Signal {
		case market.Buy:
			e.nextBuy[i] = i
		case market.Sell:
			e.nextSell[i] = i
		}
	}

	return e
}

// rangeMinLow returns min(Low[l..r]) inclusive.
func (e *extrema) rangeMinLow(l, r int) float64 {
	k := bits.Len(uint(r-l+1)) - 1
	return minf(e.minLow[k][l], e.minLow[k][r-(1<<k)+1])
}

func (e *extrema) rangeMaxHigh(l, r int) float64 {
	k := bits.Len(uint(r-l+1)) - 1
	return maxf(e.maxHigh[k][l], e.maxHigh[k][r-(1<<k)+1])
}

// firstLowBelow returns the smallest j in [from, n) with Low[j] < x,
// or n when no bar breaches.
func (e *extrema) firstLowBelow(from int, x float64) int {
	n := e.s.Len()
	if from >= n || e.rangeMinLow(from, n-1) >= x {
		return n
	}
	lo, hi := from, n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if e.rangeMinLow(from, mid) < x {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// firstHighAbove returns the smallest j in [from, n) with High[j] > x,
// or n when no bar breaches.
func (e *extrema) firstHighAbove(from int, x float64) int {
	n := e.s.Len()
	if from >= n || e.rangeMaxHigh(from, n-1) <= x {
		return n
	}
	lo, hi := from, n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if e.rangeMaxHigh(from, mid) > x {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// fastScan resolves a trade using precomputed extrema. The candidate exit
// is the earliest of: first SL breach, first TP breach, first reversal
// bar. Tie-breaks reproduce the linear scan exactly: a reversal bar only
// honors an SL breach, a long continuation bar checks SL before TP, a
// short one TP before SL.
func (e *Engine) fastScan(tr Trade, sl, tp float64) Trade {
	n := e.series.Len()
	from := tr.OpenedAt + 1

	tr.SL = sl
	tr.TP = tp
	if from >= n {
		return tr
	}

	var jRev, jSL, jTP int
	if tr.Side == Long {
		jRev = e.ext.nextSell[from]
		jSL = e.ext.firstLowBelow(from, sl)
		jTP = e.ext.firstHighAbove(from, tp)
	} else {
		jRev = e.ext.nextBuy[from]
		jSL = e.ext.firstHighAbove(from, sl)
		jTP = e.ext.firstLowBelow(from, tp)
	}

	m := jRev
	if jSL < m {
		m = jSL
	}
	if jTP < m {
		m = jTP
	}
	if m == n {
		return tr // never exits: a valid terminal state
	}

	switch {
	case jRev == m && jSL == m:
		e.close(&tr, m, sl, ReasonReversalStop)
	case jRev == m:
		e.close(&tr, m, e.series.Bars[m].Close, ReasonReversal)
	case tr.Side == Long && jSL == m:
		e.close(&tr, m, sl, ReasonStop)
	case tr.Side == Short && jTP == m:
		e.close(&tr, m, tp, ReasonTake)
	case tr.Side == Long:
		e.close(&tr, m, tp, ReasonTake)
	default:
		e.close(&tr, m, sl, ReasonStop)
	}
	return tr
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

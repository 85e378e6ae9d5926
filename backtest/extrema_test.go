package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanhoa/autotrade/market"
)

func TestExtremaBreachSearch(t *testing.T) {
	t.Parallel()

	// Lows:  100 98 102 95 103   Highs: 110 108 112 105 113
	s := mkSeries(
		flat(100, 110, 105),
		flat(98, 108, 104),
		flat(102, 112, 106),
		flat(95, 105, 100),
		flat(103, 113, 108),
	)
	ext := newExtrema(s)

	assert.InDelta(t, 95.0, ext.rangeMinLow(0, 4), 1e-9)
	assert.InDelta(t, 98.0, ext.rangeMinLow(0, 2), 1e-9)
	assert.InDelta(t, 113.0, ext.rangeMaxHigh(0, 4), 1e-9)
	assert.InDelta(t, 112.0, ext.rangeMaxHigh(1, 3), 1e-9)

	// Strict comparisons: equality is not a breach.
	assert.Equal(t, 1, ext.firstLowBelow(0, 100))
	assert.Equal(t, 3, ext.firstLowBelow(2, 100))
	assert.Equal(t, 5, ext.firstLowBelow(0, 95))
	assert.Equal(t, 2, ext.firstHighAbove(0, 110))
	assert.Equal(t, 4, ext.firstHighAbove(3, 112))
	assert.Equal(t, 5, ext.firstHighAbove(0, 113))
	assert.Equal(t, 5, ext.firstLowBelow(5, 200))
}

func TestExtremaNextSignal(t *testing.T) {
	t.Parallel()

	s := mkSeries(
		flat(99, 101, 100),
		sig(market.Buy, 104, 106, 105),
		flat(99, 101, 100),
		sig(market.Sell, 104, 106, 105),
		flat(99, 101, 100),
	)
	ext := newExtrema(s)

	assert.Equal(t, []int{1, 1, 5, 5, 5, 5}, ext.nextBuy)
	assert.Equal(t, []int{3, 3, 3, 3, 5, 5}, ext.nextSell)
}

func TestOptimizedScanMatchesReference(t *testing.T) {
	t.Parallel()

	// A deterministic tape mixing take-profits, stop-outs, reversals
	// with and without stop breach, same-bar collisions, and a trailing
	// unresolved trade. The optimized scan must reproduce the reference
	// ledger exactly.
	bars := []market.Bar{flat(99, 101, 100)}
	price := 105.0
	for i := 0; i < 120; i++ {
		var b market.Bar
		switch i % 9 {
		case 0:
			b = sig(market.Buy, price-1, price+1, price)
		case 4:
			b = sig(market.Sell, price-1.5, price+0.5, price-1)
		case 6:
			b = flat(price-6, price+6, price) // wide bar: likely collision
		default:
			b = flat(price-2.5, price+2.5, price+float64(i%3)-1)
		}
		bars = append(bars, b)
		price += float64(i%7) - 3
	}

	for _, cfg := range []Config{
		{},
		{ContractMultiplier: 100, InitCapital: 1000},
		{DailyTarget: 6, DailyMetric: DailyPriceDiff},
	} {
		reference := cfg
		reference.Optimize = false
		optimized := cfg
		optimized.Optimize = true

		want := runEngine(t, mkSeries(bars...), reference, nil)
		got := runEngine(t, mkSeries(bars...), optimized, nil)
		require.Equal(t, want, got)
	}
}

func TestOptimizeIgnoredWithLadder(t *testing.T) {
	t.Parallel()

	// A laddered run takes the reference path even when Optimize is set:
	// the ratcheted stop at 106 must still be honored.
	cfg := Config{
		Rules:    []TrailingRule{{Threshold: 2, SLAdjustment: 1, TPAdjustment: 2}},
		Optimize: true,
	}
	s := mkSeries(
		flat(99, 101, 100),
		sig(market.Buy, 104, 106, 105),
		flat(104, 109, 108),
		flat(105, 107, 106),
	)
	led := runEngine(t, s, cfg, nil)

	row := led.Rows[1]
	assert.Equal(t, ReasonStop, row.Reason)
	assert.InDelta(t, 106.0, row.SL, 1e-9)
	assert.InDelta(t, 1.0, row.PnL, 1e-9)
}

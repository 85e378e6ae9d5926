package market

import "time"

// Signal is the discrete entry annotation attached to a bar.
type Signal int8

const (
	Sell Signal = -1
	None Signal = 0
	Buy  Signal = +1
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "NONE"
}

// Opposes reports whether o is the opposing direction to s.
// None opposes nothing.
func (s Signal) Opposes(o Signal) bool {
	return s != None && o == -s
}

// Bar is one OHLC row of the input series. EntryPrice is an optional
// synthetic entry level computed by the signal generator (e.g. the
// midpoint of two moving averages); zero when absent.
type Bar struct {
	Time       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Signal     Signal
	EntryPrice float64
}

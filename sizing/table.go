// Package sizing provides the externally owned lot-size tables the
// backtest engine consults before opening a trade. Tables are read-only
// lookup services: loaded once per run, never written.
package sizing

import "fmt"

// Tier is one row of a capital-tier table: trade Lot once account
// capital has reached Capital.
type Tier struct {
	Capital float64
	Lot     float64
}

// CapitalTable maps current capital to a lot size. Tiers are ordered
// ascending by capital threshold.
type CapitalTable struct {
	tiers []Tier
}

func NewCapitalTable(tiers []Tier) (*CapitalTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("sizing: empty capital table")
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Capital < tiers[i-1].Capital {
			return nil, fmt.Errorf("sizing: capital tiers not ascending at row %d (%v after %v)",
				i, tiers[i].Capital, tiers[i-1].Capital)
		}
	}
	return &CapitalTable{tiers: tiers}, nil
}

func (t *CapitalTable) Len() int { return len(t.tiers) }

// LotSize returns the lot of the highest tier whose threshold does not
// exceed capital. When no tier qualifies the smallest tier's lot is the
// fallback; a missing tier is never an error. The level argument is
// ignored: this table keys on capital.
func (t *CapitalTable) LotSize(capital float64, _ int) (float64, error) {
	lot := t.tiers[0].Lot
	for _, tier := range t.tiers {
		if tier.Capital > capital {
			break
		}
		lot = tier.Lot
	}
	return lot, nil
}

// LevelRow is one row of a level-index table.
type LevelRow struct {
	Level int
	Lot   float64
}

// LevelTable maps the daily-target controller's sequential level to a lot
// size.
type LevelTable struct {
	rows []LevelRow
}

func NewLevelTable(rows []LevelRow) (*LevelTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sizing: empty level table")
	}
	return &LevelTable{rows: rows}, nil
}

func (t *LevelTable) Len() int { return len(t.rows) }

// LotSize returns the lot whose row index equals level; with no exact
// match the last row's lot is the fallback. The capital argument is
// ignored: this table keys on level.
func (t *LevelTable) LotSize(_ float64, level int) (float64, error) {
	lot := t.rows[len(t.rows)-1].Lot
	for _, r := range t.rows {
		if r.Level == level {
			lot = r.Lot
		}
	}
	return lot, nil
}

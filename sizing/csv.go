package sizing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCapitalCSV reads a capital-tier table from a CSV file with header
// columns capital,lot_size.
func LoadCapitalCSV(path string) (*CapitalTable, error) {
	rows, err := readTwoColumns(path, "capital", "lot_size")
	if err != nil {
		return nil, err
	}

	tiers := make([]Tier, 0, len(rows))
	for _, r := range rows {
		tiers = append(tiers, Tier{Capital: r[0], Lot: r[1]})
	}
	return NewCapitalTable(tiers)
}

// LoadLevelCSV reads a level-index table from a CSV file with header
// columns level,lot_size.
func LoadLevelCSV(path string) (*LevelTable, error) {
	rows, err := readTwoColumns(path, "level", "lot_size")
	if err != nil {
		return nil, err
	}

	out := make([]LevelRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, LevelRow{Level: int(r[0]), Lot: r[1]})
	}
	return NewLevelTable(out)
}

func readTwoColumns(path, keyCol, valCol string) ([][2]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sizing: open table: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("sizing: %s: read header: %w", path, err)
	}

	keyIdx, valIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case keyCol:
			keyIdx = i
		case valCol:
			valIdx = i
		}
	}
	if keyIdx < 0 || valIdx < 0 {
		return nil, fmt.Errorf("sizing: %s: need %s and %s columns", path, keyCol, valCol)
	}

	var rows [][2]float64
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sizing: %s: %w", path, err)
		}
		line++
		if len(rec) <= keyIdx || len(rec) <= valIdx {
			return nil, fmt.Errorf("sizing: %s line %d: short row", path, line)
		}

		key, err := strconv.ParseFloat(strings.TrimSpace(rec[keyIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("sizing: %s line %d: bad %s %q: %w", path, line, keyCol, rec[keyIdx], err)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(rec[valIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("sizing: %s line %d: bad %s %q: %w", path, line, valCol, rec[valIdx], err)
		}
		rows = append(rows, [2]float64{key, val})
	}

	return rows, nil
}

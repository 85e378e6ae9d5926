package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// Required bar columns. The loader maps columns by header name so that
// extra indicator columns emitted by the signal generator are ignored.
var requiredCols = []string{"time", "open", "high", "low", "close", "signal"}

const entryPriceCol = "entry_price"

// LoadCSV reads a bar series from a CSV file. Files ending in .xz are
// decompressed on the fly (signal exports for long date ranges are
// usually shipped compressed).
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("market: open bars: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("market: xz reader for %s: %w", path, err)
		}
		r = xr
	}

	s, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("market: %s: %w", path, err)
	}
	return s, nil
}

// ReadCSV parses a bar series from r. The first row must be a header
// containing at least time, open, high, low, close and signal columns,
// in any order; an entry_price column is picked up when present.
func ReadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredCols {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	_, hasEntry := col[entryPriceCol]

	s := &Series{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		bar, err := parseBar(row, col, hasEntry)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.Bars = append(s.Bars, bar)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseBar(row []string, col map[string]int, hasEntry bool) (Bar, error) {
	field := func(name string) (string, error) {
		i := col[name]
		if i >= len(row) {
			return "", fmt.Errorf("short row, no %q field", name)
		}
		return strings.TrimSpace(row[i]), nil
	}
	num := func(name string) (float64, error) {
		raw, err := field(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("bad %s %q: %w", name, raw, err)
		}
		return v, nil
	}

	var bar Bar
	var err error

	raw, err := field("time")
	if err != nil {
		return bar, err
	}
	if bar.Time, err = parseTime(raw); err != nil {
		return bar, err
	}

	if bar.Open, err = num("open"); err != nil {
		return bar, err
	}
	if bar.High, err = num("high"); err != nil {
		return bar, err
	}
	if bar.Low, err = num("low"); err != nil {
		return bar, err
	}
	if bar.Close, err = num("close"); err != nil {
		return bar, err
	}

	sraw, err := field("signal")
	if err != nil {
		return bar, err
	}
	sig, err := strconv.Atoi(sraw)
	if err != nil {
		return bar, fmt.Errorf("bad signal %q: %w", sraw, err)
	}
	bar.Signal = Signal(sig)

	if hasEntry {
		raw, err := field(entryPriceCol)
		if err == nil && raw != "" {
			if bar.EntryPrice, err = strconv.ParseFloat(raw, 64); err != nil {
				return bar, fmt.Errorf("bad entry_price %q: %w", raw, err)
			}
		}
	}

	return bar, nil
}

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q", raw)
}

package sizing

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadCapitalSQLite reads a capital-tier table from a SQLite database.
// The table needs capital and lot_size columns; rows are read in
// ascending capital order.
func LoadCapitalSQLite(path, table string) (*CapitalTable, error) {
	db, err := openTable(path, table)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(
		`SELECT capital, lot_size FROM %s ORDER BY capital ASC`, table))
	if err != nil {
		return nil, fmt.Errorf("sizing: query %s: %w", table, err)
	}
	defer rows.Close()

	var tiers []Tier
	for rows.Next() {
		var t Tier
		if err := rows.Scan(&t.Capital, &t.Lot); err != nil {
			return nil, fmt.Errorf("sizing: scan %s: %w", table, err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewCapitalTable(tiers)
}

// LoadLevelSQLite reads a level-index table from a SQLite database. The
// table needs level and lot_size columns.
func LoadLevelSQLite(path, table string) (*LevelTable, error) {
	db, err := openTable(path, table)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(
		`SELECT level, lot_size FROM %s ORDER BY level ASC`, table))
	if err != nil {
		return nil, fmt.Errorf("sizing: query %s: %w", table, err)
	}
	defer rows.Close()

	var out []LevelRow
	for rows.Next() {
		var r LevelRow
		if err := rows.Scan(&r.Level, &r.Lot); err != nil {
			return nil, fmt.Errorf("sizing: scan %s: %w", table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewLevelTable(out)
}

func openTable(path, table string) (*sql.DB, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("sizing: bad table name %q", table)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sizing: open %s: %w", path, err)
	}
	return db, nil
}

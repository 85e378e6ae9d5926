package sizing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDB(t *testing.T, ddl string, inserts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sizing.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ddl)
	require.NoError(t, err)
	for _, stmt := range inserts {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestLoadCapitalSQLite(t *testing.T) {
	t.Parallel()

	path := seedDB(t,
		`CREATE TABLE tiers (capital REAL NOT NULL, lot_size REAL NOT NULL)`,
		`INSERT INTO tiers VALUES (5000, 0.5), (1000, 0.1), (20000, 2)`,
	)

	// Rows are ordered by the query, not by insert order.
	tab, err := LoadCapitalSQLite(path, "tiers")
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())

	lot, err := tab.LotSize(900, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, lot, 1e-9)

	lot, err = tab.LotSize(21000, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, lot, 1e-9)
}

func TestLoadLevelSQLite(t *testing.T) {
	t.Parallel()

	path := seedDB(t,
		`CREATE TABLE levels (level INTEGER NOT NULL, lot_size REAL NOT NULL)`,
		`INSERT INTO levels VALUES (1, 0.1), (2, 0.2)`,
	)

	tab, err := LoadLevelSQLite(path, "levels")
	require.NoError(t, err)

	lot, err := tab.LotSize(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, lot, 1e-9)
}

func TestLoadSQLiteErrors(t *testing.T) {
	t.Parallel()

	path := seedDB(t, `CREATE TABLE tiers (capital REAL, lot_size REAL)`)

	t.Run("bad_table_name", func(t *testing.T) {
		t.Parallel()
		_, err := LoadCapitalSQLite(path, "tiers; DROP TABLE tiers")
		assert.Error(t, err)
	})

	t.Run("missing_table", func(t *testing.T) {
		t.Parallel()
		_, err := LoadCapitalSQLite(path, "nope")
		assert.Error(t, err)
	})

	t.Run("empty_table", func(t *testing.T) {
		t.Parallel()
		_, err := LoadCapitalSQLite(path, "tiers")
		assert.Error(t, err)
	})
}

package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	mode TEXT NOT NULL,
	config BLOB,
	bars INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	open INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	pnl_rate REAL NOT NULL,
	rate_defined INTEGER NOT NULL,
	total_pnl REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	time DATETIME NOT NULL,
	signal INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	sl REAL NOT NULL,
	tp REAL NOT NULL,
	lot_size REAL NOT NULL,
	close_at INTEGER NOT NULL,
	price_diff REAL NOT NULL,
	pnl REAL NOT NULL,
	capital REAL NOT NULL,
	level INTEGER NOT NULL,
	daily_total REAL NOT NULL,
	cumulative_pnl REAL NOT NULL,
	reason TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_ledger_run ON ledger(run_id);
`

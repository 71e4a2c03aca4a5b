package journal

// Schema is the SQLite layout. A NULL max_dd_enabled marks an account that
// predates per-type max drawdown; those use the flat max_drawdown column.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	starting_balance REAL NOT NULL,
	profit_target_pct REAL NOT NULL DEFAULT 0,

	daily_dd_enabled INTEGER NOT NULL DEFAULT 0,
	daily_dd_pct REAL NOT NULL DEFAULT 0,
	daily_dd_type TEXT NOT NULL DEFAULT 'static',
	daily_dd_locks_at TEXT NOT NULL DEFAULT 'start_balance',
	daily_dd_locks_at_pct REAL NOT NULL DEFAULT 0,
	daily_dd_reset_time TEXT NOT NULL DEFAULT '00:00',
	daily_dd_reset_timezone TEXT NOT NULL DEFAULT 'UTC',

	max_dd_enabled INTEGER,
	max_dd_pct REAL NOT NULL DEFAULT 0,
	max_dd_type TEXT NOT NULL DEFAULT 'static',
	max_dd_trailing_stops_at TEXT NOT NULL DEFAULT 'initial',
	max_dd_locks_at_pct REAL NOT NULL DEFAULT 0,
	max_drawdown REAL NOT NULL DEFAULT 0,

	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id TEXT NOT NULL UNIQUE,
	account_id TEXT NOT NULL REFERENCES accounts(account_id),
	date TEXT NOT NULL,
	time TEXT NOT NULL DEFAULT '',
	symbol TEXT NOT NULL DEFAULT '',
	direction TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL DEFAULT '',
	pnl REAL NOT NULL DEFAULT 0,
	rr TEXT NOT NULL DEFAULT '',
	extra TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_trades_account_date ON trades(account_id, date, time);
`

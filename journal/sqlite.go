package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradejournal/equity"
)

// SQLite is the default Store, backed by a single database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) CreateAccount(ctx context.Context, a *equity.Account) error {
	if err := PrepareAccount(a); err != nil {
		return err
	}

	var maxEnabled sql.NullBool
	var m equity.MaxDrawdown
	if a.Max != nil {
		m = *a.Max
		maxEnabled = sql.NullBool{Bool: m.Enabled, Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO accounts
		(account_id, name, starting_balance, profit_target_pct,
		 daily_dd_enabled, daily_dd_pct, daily_dd_type, daily_dd_locks_at, daily_dd_locks_at_pct,
		 daily_dd_reset_time, daily_dd_reset_timezone,
		 max_dd_enabled, max_dd_pct, max_dd_type, max_dd_trailing_stops_at, max_dd_locks_at_pct,
		 max_drawdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.StartingBalance, a.ProfitTargetPct,
		a.Daily.Enabled, a.Daily.Pct, string(a.Daily.Type), string(a.Daily.LocksAt), a.Daily.LocksAtPct,
		a.Daily.ResetTime, a.Daily.ResetTimezone,
		maxEnabled, m.Pct, string(m.Type), string(m.TrailingStopsAt), m.LocksAtPct,
		a.LegacyMaxDrawdownPct, time.Now().UTC(),
	)
	return sqliteErr("insert account", err)
}

const accountColumns = `
	account_id, name, starting_balance, profit_target_pct,
	daily_dd_enabled, daily_dd_pct, daily_dd_type, daily_dd_locks_at, daily_dd_locks_at_pct,
	daily_dd_reset_time, daily_dd_reset_timezone,
	max_dd_enabled, max_dd_pct, max_dd_type, max_dd_trailing_stops_at, max_dd_locks_at_pct,
	max_drawdown`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (equity.Account, error) {
	var (
		a          equity.Account
		maxEnabled sql.NullBool
		m          equity.MaxDrawdown
		dailyType  string
		locksAt    string
		maxType    string
		stopsAt    string
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.StartingBalance, &a.ProfitTargetPct,
		&a.Daily.Enabled, &a.Daily.Pct, &dailyType, &locksAt, &a.Daily.LocksAtPct,
		&a.Daily.ResetTime, &a.Daily.ResetTimezone,
		&maxEnabled, &m.Pct, &maxType, &stopsAt, &m.LocksAtPct,
		&a.LegacyMaxDrawdownPct,
	)
	if err != nil {
		return equity.Account{}, err
	}
	a.Daily.Type = equity.DrawdownType(dailyType)
	a.Daily.LocksAt = equity.LockMode(locksAt)
	if maxEnabled.Valid {
		m.Enabled = maxEnabled.Bool
		m.Type = equity.DrawdownType(maxType)
		m.TrailingStopsAt = equity.LockMode(stopsAt)
		a.Max = &m
	}
	return a, nil
}

func (j *SQLite) GetAccount(ctx context.Context, accountID string) (equity.Account, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return equity.Account{}, fmt.Errorf("account %q: %w", accountID, ErrNotFound)
		}
		return equity.Account{}, err
	}
	return a, nil
}

func (j *SQLite) ListAccounts(ctx context.Context) ([]equity.Account, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at ASC, account_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []equity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) DeleteAccount(ctx context.Context, accountID string) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete trades: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	return tx.Commit()
}

const insertTrade = `
	INSERT INTO trades
	(trade_id, account_id, date, time, symbol, direction, outcome, pnl, rr, extra)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execTrade(ctx context.Context, db execer, accountID string, t *equity.Trade) error {
	if err := PrepareTrade(t); err != nil {
		return err
	}
	extra, err := EncodeExtra(t.Extra)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, insertTrade,
		t.ID, accountID, t.Date, t.Time, t.Symbol,
		string(t.Direction), string(t.Outcome), t.PnL, t.RR, extra,
	)
	return sqliteErr("insert trade", err)
}

func (j *SQLite) AddTrade(ctx context.Context, accountID string, t *equity.Trade) error {
	if _, err := j.GetAccount(ctx, accountID); err != nil {
		return err
	}
	return execTrade(ctx, j.db, accountID, t)
}

func (j *SQLite) AddTrades(ctx context.Context, accountID string, ts []equity.Trade) error {
	if len(ts) == 0 {
		return nil
	}
	if _, err := j.GetAccount(ctx, accountID); err != nil {
		return err
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range ts {
		if err := execTrade(ctx, tx, accountID, &ts[i]); err != nil {
			return fmt.Errorf("trade %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (j *SQLite) ListTrades(ctx context.Context, accountID string) ([]equity.Trade, error) {
	if _, err := j.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, date, time, symbol, direction, outcome, pnl, rr, extra
		FROM trades
		WHERE account_id = ?
		ORDER BY date ASC, time ASC, seq ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []equity.Trade
	for rows.Next() {
		var (
			t         equity.Trade
			direction string
			outcome   string
			extra     string
		)
		if err := rows.Scan(&t.ID, &t.Date, &t.Time, &t.Symbol, &direction, &outcome, &t.PnL, &t.RR, &extra); err != nil {
			return nil, err
		}
		t.Direction = equity.Direction(direction)
		t.Outcome = equity.Outcome(outcome)
		if t.Extra, err = DecodeExtra(extra); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) DeleteTrade(ctx context.Context, accountID, tradeID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE account_id = ? AND trade_id = ?`, accountID, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// sqliteErr maps constraint violations onto ErrDuplicateKey.
func sqliteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && (se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		se.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}

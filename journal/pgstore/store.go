package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rustyeddy/tradejournal/equity"
	"github.com/rustyeddy/tradejournal/journal"
)

// Store implements journal.Store using PostgreSQL.
type Store struct {
	pool *Pool
}

var _ journal.Store = (*Store)(nil)

func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Open connects to dsn, applies the schema and returns a ready store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return NewStore(pool), nil
}

func (s *Store) CreateAccount(ctx context.Context, a *equity.Account) error {
	if err := journal.PrepareAccount(a); err != nil {
		return err
	}

	var maxEnabled *bool
	var m equity.MaxDrawdown
	if a.Max != nil {
		m = *a.Max
		maxEnabled = &m.Enabled
	}

	query := `
		INSERT INTO accounts (
			account_id, name, starting_balance, profit_target_pct,
			daily_dd_enabled, daily_dd_pct, daily_dd_type, daily_dd_locks_at, daily_dd_locks_at_pct,
			daily_dd_reset_time, daily_dd_reset_timezone,
			max_dd_enabled, max_dd_pct, max_dd_type, max_dd_trailing_stops_at, max_dd_locks_at_pct,
			max_drawdown
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := s.pool.Exec(ctx, query,
		a.ID, a.Name, a.StartingBalance, a.ProfitTargetPct,
		a.Daily.Enabled, a.Daily.Pct, string(a.Daily.Type), string(a.Daily.LocksAt), a.Daily.LocksAtPct,
		a.Daily.ResetTime, a.Daily.ResetTimezone,
		maxEnabled, m.Pct, string(m.Type), string(m.TrailingStopsAt), m.LocksAtPct,
		a.LegacyMaxDrawdownPct,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("account %q: %w", a.ID, journal.ErrDuplicateKey)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

const accountColumns = `
	account_id, name, starting_balance, profit_target_pct,
	daily_dd_enabled, daily_dd_pct, daily_dd_type, daily_dd_locks_at, daily_dd_locks_at_pct,
	daily_dd_reset_time, daily_dd_reset_timezone,
	max_dd_enabled, max_dd_pct, max_dd_type, max_dd_trailing_stops_at, max_dd_locks_at_pct,
	max_drawdown`

func scanAccount(row pgx.Row) (equity.Account, error) {
	var (
		a          equity.Account
		maxEnabled *bool
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
	if maxEnabled != nil {
		m.Enabled = *maxEnabled
		m.Type = equity.DrawdownType(maxType)
		m.TrailingStopsAt = equity.LockMode(stopsAt)
		a.Max = &m
	}
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (equity.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID)
	a, err := scanAccount(row)
	if err != nil {
		if isNotFoundError(err) {
			return equity.Account{}, fmt.Errorf("account %q: %w", accountID, journal.ErrNotFound)
		}
		return equity.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]equity.Account, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at ASC, account_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []equity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAccount relies on ON DELETE CASCADE to drop the account's trades.
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %q: %w", accountID, journal.ErrNotFound)
	}
	return nil
}

const insertTrade = `
	INSERT INTO trades (
		trade_id, account_id, date, time, symbol, direction, outcome, pnl, rr, extra
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func execTrade(ctx context.Context, db execer, accountID string, t *equity.Trade) error {
	if err := journal.PrepareTrade(t); err != nil {
		return err
	}
	extra, err := journal.EncodeExtra(t.Extra)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, insertTrade,
		t.ID, accountID, t.Date, t.Time, t.Symbol,
		string(t.Direction), string(t.Outcome), t.PnL, t.RR, extra,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("trade %q: %w", t.ID, journal.ErrDuplicateKey)
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

func (s *Store) AddTrade(ctx context.Context, accountID string, t *equity.Trade) error {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return err
	}
	return execTrade(ctx, s.pool, accountID, t)
}

func (s *Store) AddTrades(ctx context.Context, accountID string, ts []equity.Trade) error {
	if len(ts) == 0 {
		return nil
	}
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range ts {
		if err := execTrade(ctx, tx, accountID, &ts[i]); err != nil {
			return fmt.Errorf("trade %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) ListTrades(ctx context.Context, accountID string) ([]equity.Trade, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	query := `
		SELECT trade_id, date, time, symbol, direction, outcome, pnl, rr, extra::text
		FROM trades
		WHERE account_id = $1
		ORDER BY date ASC, time ASC, seq ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
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
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Direction = equity.Direction(direction)
		t.Outcome = equity.Outcome(outcome)
		if t.Extra, err = journal.DecodeExtra(extra); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTrade(ctx context.Context, accountID, tradeID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM trades WHERE account_id = $1 AND trade_id = $2`, accountID, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, journal.ErrNotFound)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

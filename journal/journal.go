// Package journal stores trading-journal accounts and their trades and moves
// trades in and out of CSV. It is the persistence side of the equity engine:
// it hands plain equity.Trade and equity.Account values to callers and never
// computes anything from them.
package journal

import (
	"context"
	"errors"

	"github.com/rustyeddy/tradejournal/equity"
)

var (
	// ErrNotFound is returned when an account or trade does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an id is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalid wraps validation failures of incoming records.
	ErrInvalid = errors.New("invalid")
)

// Store is implemented by every journal backend.
type Store interface {
	// CreateAccount inserts a new account. An empty ID is assigned one.
	CreateAccount(ctx context.Context, a *equity.Account) error
	GetAccount(ctx context.Context, accountID string) (equity.Account, error)
	ListAccounts(ctx context.Context) ([]equity.Account, error)
	// DeleteAccount removes the account and all of its trades.
	DeleteAccount(ctx context.Context, accountID string) error

	// AddTrade inserts one trade. An empty ID is assigned one.
	AddTrade(ctx context.Context, accountID string, t *equity.Trade) error
	// AddTrades inserts a batch atomically; any failure rolls back the batch.
	AddTrades(ctx context.Context, accountID string, ts []equity.Trade) error
	// ListTrades returns an account's trades ordered by date, time and insertion.
	ListTrades(ctx context.Context, accountID string) ([]equity.Trade, error)
	DeleteTrade(ctx context.Context, accountID, tradeID string) error

	Close() error
}

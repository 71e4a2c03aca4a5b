package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/equity"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

// PrepareAccount validates a to-be-stored account and fills its ID.
func PrepareAccount(a *equity.Account) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return fmt.Errorf("%w: account name is required", ErrInvalid)
	}
	if a.StartingBalance < 0 {
		return fmt.Errorf("%w: account starting balance must not be negative", ErrInvalid)
	}
	if a.ID == "" {
		a.ID = id.New()
	}
	return nil
}

// PrepareTrade validates a to-be-stored trade and fills its ID. Trade ids
// carry the trade's own timestamp.
func PrepareTrade(t *equity.Trade) error {
	t.Date = strings.TrimSpace(t.Date)
	day, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return fmt.Errorf("%w: trade date %q: want YYYY-MM-DD", ErrInvalid, t.Date)
	}
	t.Time = strings.TrimSpace(t.Time)
	t.Direction = equity.Direction(strings.ToLower(strings.TrimSpace(string(t.Direction))))
	t.Outcome = equity.Outcome(strings.ToLower(strings.TrimSpace(string(t.Outcome))))
	if t.ID == "" {
		t.ID = id.NewAt(day)
	}
	return nil
}

// EncodeExtra serialises a trade's free-form fields for a text column.
func EncodeExtra(extra map[string]string) (string, error) {
	if len(extra) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return "", fmt.Errorf("encode extra fields: %w", err)
	}
	return string(b), nil
}

// DecodeExtra is the inverse of EncodeExtra. An empty object yields nil.
func DecodeExtra(s string) (map[string]string, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("decode extra fields: %w", err)
	}
	return m, nil
}

// Package equity turns a journal's trades and an account's risk settings into
// chart-ready data: the balance series, drawdown floors, axis labels, two-tone
// segments and summary statistics. Everything here is pure; callers own I/O.
package equity

import (
	"math"
	"strings"
	"time"
)

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

type Outcome string

const (
	Win       Outcome = "win"
	Loss      Outcome = "loss"
	Breakeven Outcome = "breakeven"
)

// Is reports whether o matches want, ignoring case and surrounding space.
func (o Outcome) Is(want Outcome) bool {
	return strings.EqualFold(strings.TrimSpace(string(o)), string(want))
}

// Trade is a single journal entry as read from the store.
type Trade struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"`           // YYYY-MM-DD
	Time      string            `json:"time,omitempty"` // HH:MM[:SS]
	Symbol    string            `json:"symbol"`
	Direction Direction         `json:"direction"`
	Outcome   Outcome           `json:"outcome"`
	PnL       float64           `json:"pnl"`
	RR        string            `json:"rr,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// pnl returns the trade's P/L with non-finite values coerced to zero.
func (t Trade) pnl() float64 {
	if math.IsNaN(t.PnL) || math.IsInf(t.PnL, 0) {
		return 0
	}
	return t.PnL
}

type DrawdownType string

const (
	Static   DrawdownType = "static"
	Trailing DrawdownType = "trailing"
)

// LockMode selects the threshold a trailing floor freezes at.
type LockMode string

const (
	LockStartBalance LockMode = "start_balance" // daily
	LockInitial      LockMode = "initial"       // max
	LockCustom       LockMode = "custom"
	LockNever        LockMode = "never" // max only
)

// DailyDrawdown limits the loss allowed within one trading day.
type DailyDrawdown struct {
	Enabled       bool         `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Pct           float64      `json:"pct" yaml:"pct" mapstructure:"pct"`
	Type          DrawdownType `json:"type" yaml:"type" mapstructure:"type"`
	LocksAt       LockMode     `json:"locks_at" yaml:"locks_at" mapstructure:"locks_at"`
	LocksAtPct    float64      `json:"locks_at_pct" yaml:"locks_at_pct" mapstructure:"locks_at_pct"`
	ResetTime     string       `json:"reset_time" yaml:"reset_time" mapstructure:"reset_time"`
	ResetTimezone string       `json:"reset_timezone" yaml:"reset_timezone" mapstructure:"reset_timezone"`
}

// MaxDrawdown limits the loss allowed over the life of the account.
type MaxDrawdown struct {
	Enabled         bool         `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Pct             float64      `json:"pct" yaml:"pct" mapstructure:"pct"`
	Type            DrawdownType `json:"type" yaml:"type" mapstructure:"type"`
	TrailingStopsAt LockMode     `json:"trailing_stops_at" yaml:"trailing_stops_at" mapstructure:"trailing_stops_at"`
	LocksAtPct      float64      `json:"locks_at_pct" yaml:"locks_at_pct" mapstructure:"locks_at_pct"`
}

// Account carries the starting balance and objective configuration of a
// journal account.
type Account struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	StartingBalance float64       `json:"starting_balance"`
	ProfitTargetPct float64       `json:"profit_target_pct,omitempty"`
	Daily           DailyDrawdown `json:"daily_drawdown"`

	// Max is nil for accounts created before per-type max drawdown existed;
	// those fall back to LegacyMaxDrawdownPct as a static limit.
	Max                  *MaxDrawdown `json:"max_drawdown,omitempty"`
	LegacyMaxDrawdownPct float64      `json:"legacy_max_drawdown_pct,omitempty"`
}

// ClampPct bounds a drawdown percentage to [0, 99]. NaN becomes 0.
func ClampPct(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 99:
		return 99
	}
	return p
}

func clampLockPct(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}

// ProfitTarget returns the balance at which the profit target is met.
func (a Account) ProfitTarget() (float64, bool) {
	pct := a.ProfitTargetPct
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct <= 0 {
		return 0, false
	}
	return a.StartingBalance * (1 + pct/100), true
}

// DailyRule returns the daily drawdown config with clamps applied and
// defaults filled in. ok is false when the rule is effectively disabled.
func (a Account) DailyRule() (DailyDrawdown, bool) {
	d := a.Daily
	d.Pct = ClampPct(d.Pct)
	d.LocksAtPct = clampLockPct(d.LocksAtPct)
	if d.Type != Trailing {
		d.Type = Static
	}
	if d.LocksAt != LockCustom {
		d.LocksAt = LockStartBalance
	}
	if _, ok := parseClock(d.ResetTime); !ok {
		d.ResetTime = "00:00"
	}
	if _, err := time.LoadLocation(d.ResetTimezone); err != nil {
		d.ResetTimezone = "UTC"
	}
	return d, d.Enabled && d.Pct > 0
}

// MaxRule resolves the max drawdown config, falling back to the legacy flat
// percentage when no per-type config exists.
func (a Account) MaxRule() (MaxDrawdown, bool) {
	var m MaxDrawdown
	if a.Max != nil {
		m = *a.Max
	} else {
		m = MaxDrawdown{Enabled: true, Pct: a.LegacyMaxDrawdownPct, Type: Static}
	}
	m.Pct = ClampPct(m.Pct)
	m.LocksAtPct = clampLockPct(m.LocksAtPct)
	if m.Type != Trailing {
		m.Type = Static
	}
	switch m.TrailingStopsAt {
	case LockCustom, LockNever:
	default:
		m.TrailingStopsAt = LockInitial
	}
	return m, m.Enabled && m.Pct > 0
}

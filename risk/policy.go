// Package risk judges an account's equity curve against its prop-firm style
// objectives: the profit target and the daily and max drawdown floors.
package risk

// Violation codes.
const (
	DailyDrawdownBreached = "DAILY_DRAWDOWN_BREACHED"
	MaxDrawdownBreached   = "MAX_DRAWDOWN_BREACHED"
)

// Status of an account against its objectives.
type Status string

const (
	// Active accounts have breached nothing and not yet reached the target.
	Active Status = "active"
	// Passed accounts reached the profit target before any breach.
	Passed Status = "passed"
	// Failed accounts breached a drawdown floor.
	Failed Status = "failed"
)

type Violation struct {
	Code    string  `json:"code"`
	Msg     string  `json:"msg"`
	Index   int     `json:"idx"`
	Date    string  `json:"date,omitempty"`
	Balance float64 `json:"balance"`
	Floor   float64 `json:"floor"`
}

// Room is the distance between the current balance and one objective level.
type Room struct {
	Enabled bool    `json:"enabled"`
	Level   float64 `json:"level"`
	Amount  float64 `json:"amount"`
	Pct     float64 `json:"pct"`
}

// Decision is the outcome of Evaluate. Allowed turns false at the first
// breach and stays false.
type Decision struct {
	Status     Status      `json:"status"`
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	Balance float64 `json:"balance"`
	NetPL   float64 `json:"net_pl"`

	TargetReached bool `json:"target_reached"`
	TargetIndex   int  `json:"target_idx,omitempty"`

	// ToTarget is the profit still needed; Daily and Max are the loss the
	// current balance can absorb before the floor.
	ToTarget Room `json:"to_target"`
	Daily    Room `json:"daily"`
	Max      Room `json:"max"`
}

func (d *Decision) add(v Violation) {
	d.Violations = append(d.Violations, v)
	d.Allowed = false
}

package equity

// FloorPoint is the drawdown floor in effect at a series index.
type FloorPoint struct {
	Index    int     `json:"idx"`
	Floor    float64 `json:"floor"`
	IsNewDay bool    `json:"is_new_day"`
	Day      string  `json:"day,omitempty"`
	Locked   bool    `json:"locked"`
}

// ComputeDailyFloor returns one floor per series point. Each trading day the
// floor is reset to the day's opening balance less the daily percentage. A
// trailing floor that reaches its lock threshold stays there for the rest of
// the series. Returns nil when the rule is disabled.
func ComputeDailyFloor(series []Point, acct Account) []FloorPoint {
	rule, ok := acct.DailyRule()
	if !ok || len(series) == 0 {
		return nil
	}

	start := acct.StartingBalance
	keep := 1 - rule.Pct/100
	threshold := start
	if rule.LocksAt == LockCustom {
		threshold = start * (1 + rule.LocksAtPct/100)
	}

	out := make([]FloorPoint, len(series))
	floor := start * keep
	locked := false
	day := ""

	for i, p := range series {
		fp := FloorPoint{Index: p.Index}
		if i > 0 {
			d := TradingDay(p.Date, p.Time, rule.ResetTime)
			if d != day {
				day = d
				fp.IsNewDay = true
				if !locked {
					// the previous point closed the prior trading day
					floor = series[i-1].Balance * keep
				}
			}
		}
		if rule.Type == Trailing && !locked && floor >= threshold {
			locked = true
		}
		if locked {
			floor = threshold
		}
		fp.Floor = floor
		fp.Day = day
		fp.Locked = locked
		out[i] = fp
	}
	return out
}

// MaxFloor is the max drawdown floor. A static rule has a single Level; a
// trailing rule has one point per series index. Kind is empty when the rule
// is disabled.
type MaxFloor struct {
	Kind      DrawdownType `json:"kind,omitempty"`
	Level     float64      `json:"level,omitempty"`
	Threshold float64      `json:"threshold,omitempty"`
	Points    []FloorPoint `json:"points,omitempty"`
}

// Enabled reports whether a max drawdown rule applies.
func (m MaxFloor) Enabled() bool { return m.Kind != "" }

// At returns the floor at series index i.
func (m MaxFloor) At(i int) (float64, bool) {
	switch m.Kind {
	case Static:
		return m.Level, true
	case Trailing:
		if i < 0 || i >= len(m.Points) {
			return 0, false
		}
		return m.Points[i].Floor, true
	}
	return 0, false
}

// ComputeMaxFloor returns the max drawdown floor for the series. Trailing
// floors follow the running peak balance until they reach the lock threshold
// (unless the rule never locks), then freeze permanently.
func ComputeMaxFloor(series []Point, acct Account) MaxFloor {
	rule, ok := acct.MaxRule()
	if !ok {
		return MaxFloor{}
	}

	start := acct.StartingBalance
	keep := 1 - rule.Pct/100

	if rule.Type == Static {
		return MaxFloor{Kind: Static, Level: start * keep}
	}

	threshold := start
	canLock := true
	switch rule.TrailingStopsAt {
	case LockCustom:
		threshold = start * (1 + rule.LocksAtPct/100)
	case LockNever:
		canLock = false
		threshold = 0
	}

	out := make([]FloorPoint, len(series))
	peak := start
	locked := false
	for i, p := range series {
		if p.Balance > peak {
			peak = p.Balance
		}
		floor := peak * keep
		if canLock && !locked && floor >= threshold {
			locked = true
		}
		if locked {
			floor = threshold
		}
		out[i] = FloorPoint{Index: p.Index, Floor: floor, Locked: locked}
	}
	return MaxFloor{Kind: Trailing, Threshold: threshold, Points: out}
}

// SuppressAtTarget drops floor points that sit on or above the profit target
// so the two lines are not drawn on top of each other.
func SuppressAtTarget(points []FloorPoint, target float64) []FloorPoint {
	out := make([]FloorPoint, 0, len(points))
	for _, p := range points {
		if p.Floor < target {
			out = append(out, p)
		}
	}
	return out
}

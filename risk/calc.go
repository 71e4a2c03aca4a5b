package risk

import "math"

// room measures how far balance sits above level, never negative.
func room(balance, level float64) Room {
	amt := math.Max(0, balance-level)
	return Room{Enabled: true, Level: level, Amount: amt, Pct: pctOf(amt, balance)}
}

// pctOf returns part as a percentage of whole, or 0 when whole is not positive.
func pctOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

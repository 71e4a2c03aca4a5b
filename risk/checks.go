package risk

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradejournal/equity"
)

// Evaluate walks the chart's series and reports the first breach of each
// drawdown floor, whether and when the profit target was reached, and the
// room left against each objective at the last point. A balance equal to a
// floor is not a breach.
func Evaluate(c equity.Chart) Decision {
	d := Decision{Status: Active, Allowed: true}
	if len(c.Series) == 0 {
		d.Balance = c.StartingBalance
		return d
	}

	var dailyHit, maxHit bool
	breachAt, targetAt := -1, -1
	for i, p := range c.Series {
		if !dailyHit && i < len(c.DailyFloor) && p.Balance < c.DailyFloor[i].Floor {
			dailyHit = true
			d.add(Violation{
				Code:    DailyDrawdownBreached,
				Msg:     fmt.Sprintf("balance %.2f below daily floor %.2f", p.Balance, c.DailyFloor[i].Floor),
				Index:   p.Index,
				Date:    p.Date,
				Balance: p.Balance,
				Floor:   c.DailyFloor[i].Floor,
			})
		}
		if floor, ok := c.MaxFloor.At(i); ok && !maxHit && p.Balance < floor {
			maxHit = true
			d.add(Violation{
				Code:    MaxDrawdownBreached,
				Msg:     fmt.Sprintf("balance %.2f below max drawdown floor %.2f", p.Balance, floor),
				Index:   p.Index,
				Date:    p.Date,
				Balance: p.Balance,
				Floor:   floor,
			})
		}
		if breachAt < 0 && (dailyHit || maxHit) {
			breachAt = i
		}
		if c.HasTarget && !d.TargetReached && p.Balance >= c.ProfitTarget {
			d.TargetReached = true
			d.TargetIndex = p.Index
			targetAt = i
		}
	}

	last := len(c.Series) - 1
	d.Balance = c.Series[last].Balance
	d.NetPL = d.Balance - c.StartingBalance

	if c.HasTarget {
		d.ToTarget = Room{
			Enabled: true,
			Level:   c.ProfitTarget,
			Amount:  math.Max(0, c.ProfitTarget-d.Balance),
		}
		d.ToTarget.Pct = pctOf(d.ToTarget.Amount, c.StartingBalance)
	}
	if last < len(c.DailyFloor) {
		d.Daily = room(d.Balance, c.DailyFloor[last].Floor)
	}
	if floor, ok := c.MaxFloor.At(last); ok {
		d.Max = room(d.Balance, floor)
	}

	switch {
	case breachAt >= 0 && (targetAt < 0 || breachAt <= targetAt):
		d.Status = Failed
	case d.TargetReached:
		d.Status = Passed
	}
	return d
}

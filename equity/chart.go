package equity

import "strconv"

// Chart is everything a presentation surface needs to draw an account's
// equity curve and objective lines.
type Chart struct {
	AccountID       string          `json:"account_id"`
	StartingBalance float64         `json:"starting_balance"`
	ProfitTarget    float64         `json:"profit_target,omitempty"`
	HasTarget       bool            `json:"has_target"`
	Series          []Point         `json:"series"`
	Segments        Segments        `json:"segments"`
	DailyFloor      []FloorPoint    `json:"daily_floor,omitempty"`
	MaxFloor        MaxFloor        `json:"max_floor"`
	Lines           []ObjectiveLine `json:"lines"`
	Axis            Axis            `json:"axis"`
	Stats           Stats           `json:"stats"`
}

// Final returns the last balance of the series.
func (c Chart) Final() float64 {
	if len(c.Series) == 0 {
		return c.StartingBalance
	}
	return c.Series[len(c.Series)-1].Balance
}

// BuildChart runs the full pipeline for one account.
func BuildChart(trades []Trade, acct Account) Chart {
	start := acct.StartingBalance
	series := BuildSeries(trades, start)

	c := Chart{
		AccountID:       acct.ID,
		StartingBalance: start,
		Series:          series,
		Segments:        SplitSegments(SeriesXY(series), start),
		DailyFloor:      ComputeDailyFloor(series, acct),
		MaxFloor:        ComputeMaxFloor(series, acct),
		Stats:           ComputeStats(trades),
	}
	c.ProfitTarget, c.HasTarget = acct.ProfitTarget()
	c.Lines = ObjectiveLines(acct, c.DailyFloor, c.MaxFloor)
	c.Axis = ComputeAxis(series, start, c.Lines)
	return c
}

// ObjectiveLines collects the levels the axis must keep in view: the profit
// target, the static max floor, and the lowest and highest values of any
// moving floor.
func ObjectiveLines(acct Account, daily []FloorPoint, maxFloor MaxFloor) []ObjectiveLine {
	var lines []ObjectiveLine
	if target, ok := acct.ProfitTarget(); ok {
		lines = append(lines, ObjectiveLine{
			Kind:  LineTarget,
			Label: "Profit target " + strconv.FormatFloat(acct.ProfitTargetPct, 'f', -1, 64) + "%",
			Value: target,
		})
	}

	switch maxFloor.Kind {
	case Static:
		lines = append(lines, ObjectiveLine{Kind: LineFloor, Label: "Max drawdown", Value: maxFloor.Level})
	case Trailing:
		lines = append(lines, floorRange("Max drawdown", maxFloor.Points)...)
	}
	lines = append(lines, floorRange("Daily drawdown", daily)...)
	return lines
}

func floorRange(label string, points []FloorPoint) []ObjectiveLine {
	if len(points) == 0 {
		return nil
	}
	lo, hi := points[0].Floor, points[0].Floor
	for _, p := range points[1:] {
		lo = min(lo, p.Floor)
		hi = max(hi, p.Floor)
	}
	out := []ObjectiveLine{{Kind: LineFloor, Label: label + " low", Value: lo}}
	if hi != lo {
		out = append(out, ObjectiveLine{Kind: LineFloor, Label: label + " high", Value: hi})
	}
	return out
}

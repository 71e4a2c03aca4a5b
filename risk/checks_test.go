package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/equity"
)

func staticMax(pct float64) *equity.MaxDrawdown {
	return &equity.MaxDrawdown{Enabled: true, Pct: pct, Type: equity.Static}
}

func trades(pnls ...float64) []equity.Trade {
	out := make([]equity.Trade, len(pnls))
	for i, p := range pnls {
		out[i] = equity.Trade{Date: "2024-01-02", Time: []string{"10:00", "11:00", "12:00", "13:00"}[i], PnL: p}
	}
	return out
}

func evaluate(acct equity.Account, ts []equity.Trade) Decision {
	return Evaluate(equity.BuildChart(ts, acct))
}

func TestEvaluateNoTrades(t *testing.T) {
	t.Parallel()

	acct := equity.Account{StartingBalance: 10000, ProfitTargetPct: 10, Max: staticMax(10)}
	d := evaluate(acct, nil)

	assert.Equal(t, Active, d.Status)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Violations)
	assert.Equal(t, 10000.0, d.Balance)
	assert.Equal(t, 0.0, d.NetPL)

	assert.True(t, d.ToTarget.Enabled)
	assert.InDelta(t, 1000, d.ToTarget.Amount, 1e-9)
	assert.InDelta(t, 10, d.ToTarget.Pct, 1e-9)

	assert.True(t, d.Max.Enabled)
	assert.InDelta(t, 9000, d.Max.Level, 1e-9)
	assert.InDelta(t, 1000, d.Max.Amount, 1e-9)
	assert.False(t, d.Daily.Enabled)
}

func TestEvaluateEmptyChart(t *testing.T) {
	t.Parallel()

	d := Evaluate(equity.Chart{StartingBalance: 500})
	assert.Equal(t, Active, d.Status)
	assert.True(t, d.Allowed)
	assert.Equal(t, 500.0, d.Balance)
}

func TestEvaluateTargetReached(t *testing.T) {
	t.Parallel()

	acct := equity.Account{StartingBalance: 10000, ProfitTargetPct: 10, Max: staticMax(10)}
	d := evaluate(acct, trades(500, 600))

	assert.Equal(t, Passed, d.Status)
	assert.True(t, d.Allowed)
	assert.True(t, d.TargetReached)
	assert.Equal(t, 2, d.TargetIndex)
	assert.Equal(t, 11100.0, d.Balance)
	assert.Equal(t, 1100.0, d.NetPL)
	assert.Equal(t, 0.0, d.ToTarget.Amount)
	assert.InDelta(t, 2100, d.Max.Amount, 1e-9)
	assert.InDelta(t, 2100.0/11100*100, d.Max.Pct, 1e-9)
}

func TestEvaluateMaxDrawdownBreached(t *testing.T) {
	t.Parallel()

	acct := equity.Account{StartingBalance: 10000, ProfitTargetPct: 10, Max: staticMax(10)}
	d := evaluate(acct, trades(-600, -500, 100))

	assert.Equal(t, Failed, d.Status)
	assert.False(t, d.Allowed)
	require.Len(t, d.Violations, 1)

	v := d.Violations[0]
	assert.Equal(t, MaxDrawdownBreached, v.Code)
	assert.Equal(t, 2, v.Index)
	assert.Equal(t, "2024-01-02", v.Date)
	assert.Equal(t, 8900.0, v.Balance)
	assert.InDelta(t, 9000, v.Floor, 1e-9)

	assert.InDelta(t, 0, d.Max.Amount, 1e-9)
}

func TestEvaluateFloorTouchIsNotBreach(t *testing.T) {
	t.Parallel()

	acct := equity.Account{StartingBalance: 10000, Max: staticMax(10)}
	d := evaluate(acct, trades(-1000))

	assert.Equal(t, Active, d.Status)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Violations)
}

func TestEvaluateDailyDrawdownBreached(t *testing.T) {
	t.Parallel()

	acct := equity.Account{
		StartingBalance: 10000,
		Daily:           equity.DailyDrawdown{Enabled: true, Pct: 5},
		Max:             &equity.MaxDrawdown{},
	}
	d := evaluate(acct, trades(-300, -300))

	assert.Equal(t, Failed, d.Status)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, DailyDrawdownBreached, d.Violations[0].Code)
	assert.Equal(t, 2, d.Violations[0].Index)
	assert.InDelta(t, 9500, d.Violations[0].Floor, 1e-9)

	assert.True(t, d.Daily.Enabled)
	assert.Equal(t, 0.0, d.Daily.Amount)
	assert.False(t, d.Max.Enabled)
	assert.False(t, d.ToTarget.Enabled)
}

func TestEvaluateTrailingMaxBreached(t *testing.T) {
	t.Parallel()

	acct := equity.Account{
		StartingBalance: 10000,
		Max:             &equity.MaxDrawdown{Enabled: true, Pct: 10, Type: equity.Trailing},
	}
	d := evaluate(acct, trades(1000, -1200))

	require.Len(t, d.Violations, 1)
	assert.Equal(t, MaxDrawdownBreached, d.Violations[0].Code)
	assert.Equal(t, 9800.0, d.Violations[0].Balance)
	assert.InDelta(t, 9900, d.Violations[0].Floor, 1e-9)
}

func TestEvaluateTargetBeforeBreachStillPasses(t *testing.T) {
	t.Parallel()

	acct := equity.Account{StartingBalance: 10000, ProfitTargetPct: 5, Max: staticMax(10)}
	d := evaluate(acct, trades(600, -1700))

	assert.Equal(t, Passed, d.Status)
	assert.False(t, d.Allowed)
	assert.Equal(t, 1, d.TargetIndex)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, 2, d.Violations[0].Index)
}

func TestEvaluateReportsEachRuleOnce(t *testing.T) {
	t.Parallel()

	acct := equity.Account{
		StartingBalance: 10000,
		Daily:           equity.DailyDrawdown{Enabled: true, Pct: 5},
		Max:             staticMax(10),
	}
	d := evaluate(acct, trades(-700, -100, -100, -200))

	assert.Equal(t, Failed, d.Status)
	require.Len(t, d.Violations, 2)
	assert.Equal(t, DailyDrawdownBreached, d.Violations[0].Code)
	assert.Equal(t, 1, d.Violations[0].Index)
	assert.Equal(t, MaxDrawdownBreached, d.Violations[1].Code)
	assert.Equal(t, 4, d.Violations[1].Index)
}

func TestPctOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, pctOf(10, 0))
	assert.Equal(t, 0.0, pctOf(10, -5))
	assert.InDelta(t, 25, pctOf(25, 100), 1e-12)
}

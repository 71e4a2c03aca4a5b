package equity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsEmpty(t *testing.T) {
	t.Parallel()

	st := ComputeStats(nil)
	assert.Equal(t, 0, st.WinRate)
	assert.Equal(t, PFNone, st.ProfitFactor.Kind)
	assert.Equal(t, "-", st.ProfitFactor.String())
	assert.Equal(t, 0, st.Consistency)
	assert.Equal(t, 0.0, st.Expectancy)
	assert.Equal(t, 0.0, st.AvgWin)
	assert.Equal(t, 0.0, st.AvgLoss)
}

func TestComputeStatsWinThenLoss(t *testing.T) {
	t.Parallel()

	st := ComputeStats([]Trade{
		{Date: "2024-01-02", PnL: 500, Outcome: Win},
		{Date: "2024-01-02", PnL: -200, Outcome: Loss},
	})
	assert.Equal(t, 50, st.WinRate)
	assert.Equal(t, PFFinite, st.ProfitFactor.Kind)
	assert.InDelta(t, 2.5, st.ProfitFactor.Value, 1e-12)
	assert.Equal(t, "2.50", st.ProfitFactor.String())
	assert.InDelta(t, 150, st.Expectancy, 1e-12)
	assert.InDelta(t, 500, st.AvgWin, 1e-12)
	assert.InDelta(t, 200, st.AvgLoss, 1e-12)
	assert.Equal(t, 100, st.Consistency)
}

func TestComputeStatsProfitFactorSentinels(t *testing.T) {
	t.Parallel()

	onlyWins := ComputeStats([]Trade{{Date: "2024-01-02", PnL: 10, Outcome: Win}})
	assert.Equal(t, PFInfinite, onlyWins.ProfitFactor.Kind)
	assert.Equal(t, "∞", onlyWins.ProfitFactor.String())

	flat := ComputeStats([]Trade{{Date: "2024-01-02", PnL: 0, Outcome: Breakeven}})
	assert.Equal(t, "-", flat.ProfitFactor.String())
	assert.Equal(t, 0, flat.WinRate)

	b, err := json.Marshal(onlyWins.ProfitFactor)
	require.NoError(t, err)
	assert.JSONEq(t, `"∞"`, string(b))

	b, err = json.Marshal(ComputeStats([]Trade{
		{PnL: 30, Outcome: Win}, {PnL: -20, Outcome: Loss},
	}).ProfitFactor)
	require.NoError(t, err)
	assert.JSONEq(t, `1.5`, string(b))

	var pf ProfitFactor
	require.NoError(t, json.Unmarshal([]byte(`"∞"`), &pf))
	assert.Equal(t, PFInfinite, pf.Kind)
	require.NoError(t, json.Unmarshal([]byte(`2.25`), &pf))
	assert.Equal(t, ProfitFactor{Kind: PFFinite, Value: 2.25}, pf)
}

func TestComputeStatsStreaks(t *testing.T) {
	t.Parallel()

	seq := []Outcome{Win, Win, Loss, Win, Win, Win, Breakeven, Win, Loss, Loss}
	trades := make([]Trade, len(seq))
	for i, o := range seq {
		// dates are out of order on purpose; streaks follow chronology
		trades[len(seq)-1-i] = Trade{Date: "2024-05-" + twoDigit(i+1), Outcome: o}
	}

	st := ComputeStats(trades)
	assert.Equal(t, 3, st.WinStreak)
	assert.Equal(t, 2, st.LossStreak)
	assert.Equal(t, 6, st.Wins)
	assert.Equal(t, 3, st.Losses)
	assert.Equal(t, 67, st.WinRate)
}

func TestComputeStatsBreakevenResetsStreaks(t *testing.T) {
	t.Parallel()

	st := ComputeStats([]Trade{
		{Date: "2024-05-01", Outcome: Loss},
		{Date: "2024-05-02", Outcome: "be"},
		{Date: "2024-05-03", Outcome: Loss},
		{Date: "2024-05-04", Outcome: "WIN"},
	})
	assert.Equal(t, 1, st.LossStreak)
	assert.Equal(t, 1, st.WinStreak)
}

func TestComputeStatsConsistency(t *testing.T) {
	t.Parallel()

	st := ComputeStats([]Trade{
		{Date: "2024-01-01", PnL: 100, Outcome: Win},
		{Date: "2024-01-01", PnL: -50, Outcome: Loss},
		{Date: "2024-01-02", PnL: -30, Outcome: Loss},
		{Date: "2024-01-03", PnL: 10, Outcome: Win},
		{Date: "2024-01-04", PnL: 0, Outcome: Breakeven},
	})
	assert.Equal(t, 4, st.TradingDays)
	assert.Equal(t, 2, st.ProfitableDays)
	assert.Equal(t, 50, st.Consistency)
	assert.InDelta(t, 110, st.GrossProfit, 1e-12)
	assert.InDelta(t, 80, st.GrossLoss, 1e-12)
	assert.InDelta(t, 30, st.TotalPnL, 1e-12)
	assert.InDelta(t, 6, st.Expectancy, 1e-12)
}

func TestComputeStatsNonFinitePnL(t *testing.T) {
	t.Parallel()

	st := ComputeStats([]Trade{
		{Date: "2024-01-01", PnL: math.NaN(), Outcome: Win},
		{Date: "2024-01-01", PnL: math.Inf(-1), Outcome: Loss},
	})
	assert.Equal(t, 0.0, st.TotalPnL)
	assert.Equal(t, "-", st.ProfitFactor.String())
	assert.False(t, math.IsNaN(st.AvgWin))
}

func TestComputeStatsAvgRR(t *testing.T) {
	t.Parallel()

	st := ComputeStats([]Trade{
		{Date: "2024-01-01", RR: "2"},
		{Date: "2024-01-02", RR: "1:3"},
		{Date: "2024-01-03", RR: "junk"},
	})
	assert.InDelta(t, 2.5, st.AvgRR, 1e-12)
}

func TestParseRR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2.5", 2.5, true},
		{"1:3", 3, true},
		{"2:5", 2.5, true},
		{" 1 : 2 ", 2, true},
		{"0:2", 0, false},
		{"1:x", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"1:2:3", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRR(tt.in)
		assert.Equal(t, tt.ok, ok, "in %q", tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "in %q", tt.in)
	}
}

func TestParsePnL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1234.5, ParsePnL("$1,234.50"))
	assert.Equal(t, -200.0, ParsePnL(" -200 "))
	assert.Equal(t, 0.0, ParsePnL("abc"))
	assert.Equal(t, 0.0, ParsePnL(""))
	assert.Equal(t, 0.0, ParsePnL("Inf"))
}

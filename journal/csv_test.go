package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/equity"
)

func TestReadTradesCSV(t *testing.T) {
	t.Parallel()

	in := "Date, Time,Symbol,Direction,Outcome,PnL,RR,Setup\n" +
		"2024-01-02,09:30,EURUSD,Long,Win,\"$1,250.50\",1:2,breakout\n" +
		"\n" +
		"2024-01-03,,GBPUSD,short,loss,-300,,\n"

	got, err := ReadTradesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, equity.Trade{
		Date:      "2024-01-02",
		Time:      "09:30",
		Symbol:    "EURUSD",
		Direction: equity.Long,
		Outcome:   equity.Win,
		PnL:       1250.50,
		RR:        "1:2",
		Extra:     map[string]string{"Setup": "breakout"},
	}, got[0])

	assert.Equal(t, "", got[1].Time)
	assert.Equal(t, -300.0, got[1].PnL)
	assert.Nil(t, got[1].Extra)
}

func TestReadTradesCSVUnparseablePnLIsZero(t *testing.T) {
	t.Parallel()

	got, err := ReadTradesCSV(strings.NewReader("date,pnl\n2024-01-02,abc\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].PnL)
}

func TestReadTradesCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "missing header"},
		{"no date column", "symbol,pnl\nEURUSD,10\n", "missing required column"},
		{"duplicate column", "date,pnl,PnL\n2024-01-02,1,2\n", "duplicate column"},
		{"bad date", "date,pnl\n02/01/2024,10\n", "csv line 2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadTradesCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteTradesCSVRoundTrip(t *testing.T) {
	t.Parallel()

	trades := []equity.Trade{
		{ID: "a", Date: "2024-01-02", Time: "09:30", Symbol: "EURUSD", Direction: equity.Long, Outcome: equity.Win, PnL: 120.5, RR: "2",
			Extra: map[string]string{"setup": "breakout", "notes": "clean"}},
		{ID: "b", Date: "2024-01-03", Symbol: "XAUUSD", Direction: equity.Short, Outcome: equity.Loss, PnL: -80},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, trades))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,date,time,symbol,direction,outcome,pnl,rr,notes,setup", lines[0])
	assert.Equal(t, "b,2024-01-03,,XAUUSD,short,loss,-80,,,", lines[2])

	got, err := ReadTradesCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, trades, got)
}

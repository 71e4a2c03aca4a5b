package equity

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultTime is used wherever a trade has no time of day.
const DefaultTime = "12:00"

const dateLayout = "2006-01-02"

// Point is one step of the balance series. Index 0 is the starting balance
// and carries no trade.
type Point struct {
	Index   int     `json:"idx"`
	Balance float64 `json:"balance"`
	Date    string  `json:"date,omitempty"`
	Time    string  `json:"time,omitempty"`
	Symbol  string  `json:"symbol,omitempty"`
	PnL     float64 `json:"pnl"`
	TradeID string  `json:"trade_id,omitempty"`
}

// BuildSeries returns the cumulative balance after each trade, preceded by
// the starting balance. Trades are stable-sorted by date and time first, so
// callers that already sort see no change.
func BuildSeries(trades []Trade, startingBalance float64) []Point {
	sorted := SortTrades(trades)

	out := make([]Point, 0, len(sorted)+1)
	out = append(out, Point{Index: 0, Balance: startingBalance})

	bal := startingBalance
	for i, t := range sorted {
		pnl := t.pnl()
		bal += pnl
		out = append(out, Point{
			Index:   i + 1,
			Balance: bal,
			Date:    t.Date,
			Time:    t.Time,
			Symbol:  t.Symbol,
			PnL:     pnl,
			TradeID: t.ID,
		})
	}
	return out
}

// SortTrades returns a chronologically ordered copy of trades. Equal keys
// keep their input order.
func SortTrades(trades []Trade) []Trade {
	type keyed struct {
		at time.Time
		t  Trade
	}
	ks := make([]keyed, len(trades))
	for i, t := range trades {
		ks[i] = keyed{at: tradeTimestamp(t), t: t}
	}
	sort.SliceStable(ks, func(a, b int) bool {
		return ks[a].at.Before(ks[b].at)
	})

	out := make([]Trade, len(ks))
	for i, k := range ks {
		out[i] = k.t
	}
	return out
}

// tradeTimestamp merges date and time of day into one instant. A bad date
// sorts at the epoch; a bad or missing time uses DefaultTime.
func tradeTimestamp(t Trade) time.Time {
	day, ok := parseDate(t.Date)
	if !ok {
		return time.Unix(0, 0).UTC()
	}
	tod, ok := parseClock(t.Time)
	if !ok {
		tod, _ = parseClock(DefaultTime)
	}
	return day.Add(tod)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		// tolerate full timestamps stored in the date column
		s = s[:len(dateLayout)]
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// parseClock parses HH:MM or HH:MM:SS into an offset from midnight.
func parseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	limits := []int{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}

	var d time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, false
		}
		d += time.Duration(n) * units[i]
	}
	return d, true
}

// TradingDay returns the session a trade belongs to. Trades whose time of
// day falls before resetTime count toward the previous calendar date.
// Unparseable dates yield "".
func TradingDay(date, tod, resetTime string) string {
	day, ok := parseDate(date)
	if !ok {
		return ""
	}
	reset, ok := parseClock(resetTime)
	if !ok {
		reset = 0
	}
	at, ok := parseClock(tod)
	if !ok {
		at, _ = parseClock(DefaultTime)
	}
	if at < reset {
		day = day.AddDate(0, 0, -1)
	}
	return day.Format(dateLayout)
}

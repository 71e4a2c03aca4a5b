package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/equity"
)

// Columns is the canonical CSV header. Column names are matched exactly,
// ignoring case and surrounding space; any other column is kept in
// Trade.Extra under its header name.
var Columns = []string{"id", "date", "time", "symbol", "direction", "outcome", "pnl", "rr"}

// ReadTradesCSV parses a header row followed by one trade per row. The date
// column is required; every other canonical column is optional.
func ReadTradesCSV(r io.Reader) ([]equity.Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header row")
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}

	index := map[string]int{}
	extra := map[int]string{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if isColumn(name) {
			if _, dup := index[name]; dup {
				return nil, fmt.Errorf("csv header: duplicate column %q", name)
			}
			index[name] = i
			continue
		}
		if name != "" {
			extra[i] = strings.TrimSpace(h)
		}
	}
	if _, ok := index["date"]; !ok {
		return nil, fmt.Errorf("csv header: missing required column \"date\"")
	}

	var out []equity.Trade
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		t := equity.Trade{
			ID:        get("id"),
			Date:      get("date"),
			Time:      get("time"),
			Symbol:    get("symbol"),
			Direction: equity.Direction(strings.ToLower(get("direction"))),
			Outcome:   equity.Outcome(strings.ToLower(get("outcome"))),
			PnL:       equity.ParsePnL(get("pnl")),
			RR:        get("rr"),
		}
		if _, err := time.Parse("2006-01-02", t.Date); err != nil {
			return nil, fmt.Errorf("csv line %d: date %q: want YYYY-MM-DD", line, t.Date)
		}
		for i, name := range extra {
			if i < len(rec) && rec[i] != "" {
				if t.Extra == nil {
					t.Extra = map[string]string{}
				}
				t.Extra[name] = rec[i]
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// WriteTradesCSV writes trades in the format ReadTradesCSV accepts. Extra
// fields become trailing columns in name order.
func WriteTradesCSV(w io.Writer, trades []equity.Trade) error {
	seen := map[string]bool{}
	var extras []string
	for _, t := range trades {
		for k := range t.Extra {
			if !seen[k] && !isColumn(strings.ToLower(k)) {
				seen[k] = true
				extras = append(extras, k)
			}
		}
	}
	sort.Strings(extras)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, Columns...), extras...)); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.ID,
			t.Date,
			t.Time,
			t.Symbol,
			string(t.Direction),
			string(t.Outcome),
			strconv.FormatFloat(t.PnL, 'f', -1, 64),
			t.RR,
		}
		for _, k := range extras {
			row = append(row, t.Extra[k])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func isColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

package equity

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PFKind distinguishes a finite profit factor from its sentinels.
type PFKind int

const (
	PFNone     PFKind = iota // no gross profit or loss
	PFFinite                 // gross loss > 0
	PFInfinite               // profit with no loss
)

// ProfitFactor is gross profit over gross loss. It renders as "-" when
// there is nothing to compare and "∞" when nothing was lost.
type ProfitFactor struct {
	Kind  PFKind
	Value float64
}

func (pf ProfitFactor) String() string {
	switch pf.Kind {
	case PFFinite:
		return strconv.FormatFloat(pf.Value, 'f', 2, 64)
	case PFInfinite:
		return "∞"
	}
	return "-"
}

// MarshalJSON encodes finite values as numbers and sentinels as strings.
func (pf ProfitFactor) MarshalJSON() ([]byte, error) {
	if pf.Kind == PFFinite {
		return json.Marshal(pf.Value)
	}
	return json.Marshal(pf.String())
}

func (pf *ProfitFactor) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*pf = ProfitFactor{Kind: PFFinite, Value: v}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "∞" {
		*pf = ProfitFactor{Kind: PFInfinite}
	} else {
		*pf = ProfitFactor{Kind: PFNone}
	}
	return nil
}

type Stats struct {
	TotalTrades    int          `json:"total_trades"`
	Wins           int          `json:"wins"`
	Losses         int          `json:"losses"`
	WinRate        int          `json:"win_rate"`
	ProfitFactor   ProfitFactor `json:"profit_factor"`
	Consistency    int          `json:"consistency"`
	TradingDays    int          `json:"trading_days"`
	ProfitableDays int          `json:"profitable_days"`
	WinStreak      int          `json:"win_streak"`
	LossStreak     int          `json:"loss_streak"`
	GrossProfit    float64      `json:"gross_profit"`
	GrossLoss      float64      `json:"gross_loss"`
	TotalPnL       float64      `json:"total_pnl"`
	Expectancy     float64      `json:"expectancy"`
	AvgWin         float64      `json:"avg_win"`
	AvgLoss        float64      `json:"avg_loss"`
	AvgRR          float64      `json:"avg_rr"`
}

// ComputeStats summarises a set of trades. Wins and losses are counted by
// outcome; gross profit and loss by the sign of P/L. Every ratio guards its
// denominator, so the result never holds NaN or Inf.
func ComputeStats(trades []Trade) Stats {
	sorted := SortTrades(trades)
	st := Stats{TotalTrades: len(sorted)}

	dayPnL := map[string]float64{}
	var dayOrder []string
	var winRun, lossRun int
	var rrSum float64
	var rrCount int

	for _, t := range sorted {
		pnl := t.pnl()
		st.TotalPnL += pnl
		if pnl > 0 {
			st.GrossProfit += pnl
		} else if pnl < 0 {
			st.GrossLoss -= pnl
		}

		switch {
		case t.Outcome.Is(Win):
			st.Wins++
			winRun++
			lossRun = 0
		case t.Outcome.Is(Loss):
			st.Losses++
			lossRun++
			winRun = 0
		default:
			winRun, lossRun = 0, 0
		}
		st.WinStreak = max(st.WinStreak, winRun)
		st.LossStreak = max(st.LossStreak, lossRun)

		day := strings.TrimSpace(t.Date)
		if _, seen := dayPnL[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		dayPnL[day] += pnl

		if rr, ok := ParseRR(t.RR); ok {
			rrSum += rr
			rrCount++
		}
	}

	st.WinRate = percent(st.Wins, st.Wins+st.Losses)

	switch {
	case st.GrossLoss > 0:
		st.ProfitFactor = ProfitFactor{Kind: PFFinite, Value: st.GrossProfit / st.GrossLoss}
	case st.GrossProfit > 0:
		st.ProfitFactor = ProfitFactor{Kind: PFInfinite}
	}

	st.TradingDays = len(dayOrder)
	for _, d := range dayOrder {
		if dayPnL[d] > 0 {
			st.ProfitableDays++
		}
	}
	st.Consistency = percent(st.ProfitableDays, st.TradingDays)

	st.Expectancy = safeDivide(st.TotalPnL, float64(st.TotalTrades))
	st.AvgWin = safeDivide(st.GrossProfit, float64(st.Wins))
	st.AvgLoss = safeDivide(st.GrossLoss, float64(st.Losses))
	st.AvgRR = safeDivide(rrSum, float64(rrCount))
	return st
}

func percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

func safeDivide(a, b float64) float64 {
	if b == 0 || math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	return a / b
}

// ParseRR reads a risk:reward value written either as a plain decimal
// ("2.5") or as a ratio ("1:3", read as reward per unit of risk). It is
// best effort: anything else reports ok=false.
func ParseRR(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if risk, reward, found := strings.Cut(s, ":"); found {
		r, err1 := strconv.ParseFloat(strings.TrimSpace(risk), 64)
		w, err2 := strconv.ParseFloat(strings.TrimSpace(reward), 64)
		if err1 != nil || err2 != nil || r == 0 || !finite(r) || !finite(w) {
			return 0, false
		}
		return w / r, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// ParsePnL coerces stored P/L text to a number. Currency symbols, thousands
// separators and blanks are tolerated; anything unparseable is 0.
func ParsePnL(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rustyeddy/tradejournal/equity"
)

// FormatTradeOrg renders a single trade as an Org heading with a properties
// drawer and empty review sections.
func FormatTradeOrg(t equity.Trade) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Symbol, t.Date, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Date))
	if t.Time != "" {
		b.WriteString(fmt.Sprintf(":TIME: %s\n", t.Time))
	}
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":OUTCOME: %s\n", t.Outcome))
	b.WriteString(fmt.Sprintf(":PNL: %.2f\n", t.PnL))
	if t.RR != "" {
		b.WriteString(fmt.Sprintf(":RR: %s\n", t.RR))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []equity.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

type accountReport struct {
	Account equity.Account
	Chart   equity.Chart
	Final   float64
	NetPL   float64
	Return  float64
}

var accountOrgFuncs = template.FuncMap{
	"money": func(x float64) string { return fmt.Sprintf("%.2f", x) },
}

var accountOrgTmpl = template.Must(template.New("account").Funcs(accountOrgFuncs).Parse(AccountOrgTemplate))

// FormatAccountOrg renders an account summary: a properties drawer, the
// performance statistics and the objective levels of its chart.
func FormatAccountOrg(acct equity.Account, chart equity.Chart) (string, error) {
	r := accountReport{
		Account: acct,
		Chart:   chart,
		Final:   chart.Final(),
	}
	r.NetPL = r.Final - acct.StartingBalance
	if acct.StartingBalance != 0 {
		r.Return = r.NetPL / acct.StartingBalance * 100
	}

	buf := new(bytes.Buffer)
	if err := accountOrgTmpl.Execute(buf, r); err != nil {
		return "", fmt.Errorf("render account org: %w", err)
	}
	return buf.String(), nil
}

const AccountOrgTemplate = `* ACCOUNT: {{.Account.Name}}
:PROPERTIES:
:ACCOUNT_ID:  {{.Account.ID}}
:START_BAL:   {{money .Account.StartingBalance}}
:END_BAL:     {{money .Final}}
:NET_PL:      {{money .NetPL}}
:RETURN_PCT:  {{money .Return}}
{{- if .Chart.HasTarget}}
:TARGET:      {{money .Chart.ProfitTarget}}
{{- end}}
:TRADES:      {{.Chart.Stats.TotalTrades}}
:END:

** Performance Summary
| Metric          | Value |
|-----------------+-------|
| Trades          | {{.Chart.Stats.TotalTrades}} |
| Wins            | {{.Chart.Stats.Wins}} |
| Losses          | {{.Chart.Stats.Losses}} |
| Win rate %      | {{.Chart.Stats.WinRate}} |
| Profit factor   | {{.Chart.Stats.ProfitFactor}} |
| Expectancy      | {{money .Chart.Stats.Expectancy}} |
| Avg win         | {{money .Chart.Stats.AvgWin}} |
| Avg loss        | {{money .Chart.Stats.AvgLoss}} |
| Gross profit    | {{money .Chart.Stats.GrossProfit}} |
| Gross loss      | {{money .Chart.Stats.GrossLoss}} |
| Win streak      | {{.Chart.Stats.WinStreak}} |
| Loss streak     | {{.Chart.Stats.LossStreak}} |
| Trading days    | {{.Chart.Stats.TradingDays}} |
| Profitable days | {{.Chart.Stats.ProfitableDays}} |
| Consistency %   | {{.Chart.Stats.Consistency}} |

** Objectives
{{- if .Chart.Lines}}
| Objective | Level |
|-----------+-------|
{{- range .Chart.Lines}}
| {{.Label}} | {{money .Value}} |
{{- end}}
{{- else}}
- No objectives configured.
{{- end}}

** Axis
{{- range .Chart.Axis.Labels}}
- {{money .}}
{{- end}}
`

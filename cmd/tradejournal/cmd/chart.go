package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/equity"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

var chartCmd = &cobra.Command{
	Use:   "chart <account>",
	Short: "Print an account's equity curve and drawdown floors",
	Long: `Print the balance after every trade next to the daily and max drawdown
floors in effect, followed by the objective levels and the value axis.

Examples:
  tradejournal chart <account>
  tradejournal chart <account> --json > chart.json`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var statsCmd = &cobra.Command{
	Use:   "stats <account>",
	Short: "Print an Org-mode performance report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var objectivesCmd = &cobra.Command{
	Use:   "objectives <account>",
	Short: "Check an account against its profit target and drawdown limits",
	Args:  cobra.ExactArgs(1),
	RunE:  runObjectives,
}

var chartJSON bool

func init() {
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(objectivesCmd)

	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print the full chart as JSON")
}

// loadChart opens the store and builds the chart for ref.
func loadChart(ctx context.Context, ref string) (equity.Account, equity.Chart, error) {
	store, err := openStore(ctx)
	if err != nil {
		return equity.Account{}, equity.Chart{}, err
	}
	defer store.Close()

	a, err := resolveAccount(ctx, store, ref)
	if err != nil {
		return equity.Account{}, equity.Chart{}, fmt.Errorf("get account: %w", err)
	}
	trades, err := store.ListTrades(ctx, a.ID)
	if err != nil {
		return equity.Account{}, equity.Chart{}, fmt.Errorf("list trades: %w", err)
	}
	return a, equity.BuildChart(trades, a), nil
}

func runChart(cmd *cobra.Command, args []string) error {
	_, chart, err := loadChart(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if chartJSON {
		data, err := json.MarshalIndent(chart, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal chart: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%4s  %-10s  %-8s  %12s  %12s  %12s\n", "IDX", "DATE", "SYMBOL", "BALANCE", "DAILY FLOOR", "MAX FLOOR")
	for i, p := range chart.Series {
		daily, maxFloor := "-", "-"
		if i < len(chart.DailyFloor) {
			daily = fmt.Sprintf("%.2f", chart.DailyFloor[i].Floor)
		}
		if v, ok := chart.MaxFloor.At(i); ok {
			maxFloor = fmt.Sprintf("%.2f", v)
		}
		fmt.Fprintf(out, "%4d  %-10s  %-8s  %12.2f  %12s  %12s\n", p.Index, p.Date, p.Symbol, p.Balance, daily, maxFloor)
	}

	if len(chart.Lines) > 0 {
		fmt.Fprintln(out, "\nObjectives:")
		for _, l := range chart.Lines {
			fmt.Fprintf(out, "  %-22s %12.2f\n", l.Label, l.Value)
		}
	}

	fmt.Fprintf(out, "\nAxis (step %g):", chart.Axis.Step)
	for _, v := range chart.Axis.Labels {
		fmt.Fprintf(out, " %g", v)
	}
	fmt.Fprintln(out)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	a, chart, err := loadChart(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	report, err := journal.FormatAccountOrg(a, chart)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report)
	return nil
}

func runObjectives(cmd *cobra.Command, args []string) error {
	a, chart, err := loadChart(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	d := risk.Evaluate(chart)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account: %s (%s)\n", a.Name, a.ID)
	fmt.Fprintf(out, "Status:  %s\n", d.Status)
	fmt.Fprintf(out, "Balance: %.2f (net %+.2f)\n", d.Balance, d.NetPL)

	if d.ToTarget.Enabled {
		fmt.Fprintf(out, "  To target:      %.2f (%.2f%%)\n", d.ToTarget.Amount, d.ToTarget.Pct)
	}
	if d.Daily.Enabled {
		fmt.Fprintf(out, "  Daily room:     %.2f above %.2f\n", d.Daily.Amount, d.Daily.Level)
	}
	if d.Max.Enabled {
		fmt.Fprintf(out, "  Max room:       %.2f above %.2f\n", d.Max.Amount, d.Max.Level)
	}
	for _, v := range d.Violations {
		fmt.Fprintf(out, "✗ %s at #%d %s: %s\n", v.Code, v.Index, v.Date, v.Msg)
	}
	return nil
}

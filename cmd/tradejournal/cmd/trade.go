package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/equity"
	"github.com/rustyeddy/tradejournal/journal"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Record, list, import and export trades",
	Long: `Manage the trades of an account. <account> is an account id or name.

Subcommands:
  add     - Record a single trade
  list    - List an account's trades
  import  - Import trades from a CSV file
  export  - Export trades as CSV
  rm      - Remove a trade

Examples:
  tradejournal trade add <account> --date 2024-01-15 --time 09:30 --symbol EURUSD --outcome win --pnl 250
  tradejournal trade import <account> trades.csv
  tradejournal trade export <account> -o trades.csv`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add <account>",
	Short: "Record a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeAdd,
}

var tradeListCmd = &cobra.Command{
	Use:   "list <account>",
	Short: "List an account's trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeList,
}

var tradeImportCmd = &cobra.Command{
	Use:   "import <account> <file.csv>",
	Short: "Import trades from CSV",
	Long: `Import trades from a CSV file with a header row. Recognised columns are
id, date, time, symbol, direction, outcome, pnl and rr; date is required.
Any other column is kept with the trade. The import is all or nothing.`,
	Args: cobra.ExactArgs(2),
	RunE: runTradeImport,
}

var tradeExportCmd = &cobra.Command{
	Use:   "export <account>",
	Short: "Export trades as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeExport,
}

var tradeRmCmd = &cobra.Command{
	Use:   "rm <account> <trade-id>",
	Short: "Remove a trade",
	Args:  cobra.ExactArgs(2),
	RunE:  runTradeRm,
}

var (
	tradeDate      string
	tradeTime      string
	tradeSymbol    string
	tradeDirection string
	tradeOutcome   string
	tradePnL       float64
	tradeRR        string

	tradeListOrg bool
	exportOutput string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeListCmd)
	tradeCmd.AddCommand(tradeImportCmd)
	tradeCmd.AddCommand(tradeExportCmd)
	tradeCmd.AddCommand(tradeRmCmd)

	f := tradeAddCmd.Flags()
	f.StringVarP(&tradeDate, "date", "d", "", "trade date YYYY-MM-DD (required)")
	f.StringVar(&tradeTime, "time", "", "time of day HH:MM")
	f.StringVarP(&tradeSymbol, "symbol", "s", "", "instrument symbol")
	f.StringVar(&tradeDirection, "direction", "", "long or short")
	f.StringVar(&tradeOutcome, "outcome", "", "win, loss or breakeven")
	f.Float64VarP(&tradePnL, "pnl", "p", 0, "realised profit or loss")
	f.StringVar(&tradeRR, "rr", "", "risk:reward, e.g. 1:2 or 2.5")
	tradeAddCmd.MarkFlagRequired("date")

	tradeListCmd.Flags().BoolVar(&tradeListOrg, "org", false, "print trades as Org-mode headings")
	tradeExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := resolveAccount(ctx, store, args[0])
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	t := equity.Trade{
		Date:      tradeDate,
		Time:      tradeTime,
		Symbol:    tradeSymbol,
		Direction: equity.Direction(tradeDirection),
		Outcome:   equity.Outcome(tradeOutcome),
		PnL:       tradePnL,
		RR:        tradeRR,
	}
	if err := store.AddTrade(ctx, a.ID, &t); err != nil {
		return fmt.Errorf("add trade: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded trade %s: %s %s %.2f\n", t.ID, t.Date, t.Symbol, t.PnL)
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := resolveAccount(ctx, store, args[0])
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	trades, err := store.ListTrades(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	out := cmd.OutOrStdout()
	if tradeListOrg {
		fmt.Fprintln(out, journal.FormatTradesOrg(trades))
		return nil
	}
	if len(trades) == 0 {
		fmt.Fprintln(out, "No trades.")
		return nil
	}
	fmt.Fprintf(out, "%-26s  %-10s  %-5s  %-8s  %-5s  %-9s  %10s  %s\n",
		"ID", "DATE", "TIME", "SYMBOL", "DIR", "OUTCOME", "PNL", "RR")
	for _, t := range trades {
		fmt.Fprintf(out, "%-26s  %-10s  %-5s  %-8s  %-5s  %-9s  %10.2f  %s\n",
			t.ID, t.Date, t.Time, t.Symbol, t.Direction, t.Outcome, t.PnL, t.RR)
	}
	return nil
}

func runTradeImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	trades, err := journal.ReadTradesCSV(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := resolveAccount(ctx, store, args[0])
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if err := store.AddTrades(ctx, a.ID, trades); err != nil {
		return fmt.Errorf("import trades: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades into %s\n", len(trades), a.Name)
	return nil
}

func runTradeExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := resolveAccount(ctx, store, args[0])
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	trades, err := store.ListTrades(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := journal.WriteTradesCSV(w, trades); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func runTradeRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := resolveAccount(ctx, store, args[0])
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if err := store.DeleteTrade(ctx, a.ID, args[1]); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed trade %s\n", args[1])
	return nil
}

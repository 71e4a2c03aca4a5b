package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/equity"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage journal accounts",
	Long: `Create, list, show and remove accounts.

Subcommands:
  add   - Create an account from the configured defaults
  list  - List all accounts
  show  - Show one account's settings
  rm    - Remove an account and all of its trades

Examples:
  tradejournal account add "FTMO 100k" --balance 100000 --target 10
  tradejournal account list
  tradejournal account rm <account>`,
}

var accountAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountAdd,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE:  runAccountList,
}

var accountShowCmd = &cobra.Command{
	Use:   "show <account>",
	Short: "Show an account's settings",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountShow,
}

var accountRmCmd = &cobra.Command{
	Use:   "rm <account>",
	Short: "Remove an account and its trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountRm,
}

var (
	accountID        string
	accountBalance   float64
	accountTarget    float64
	accountDaily     float64
	accountDailyType string
	accountMax       float64
	accountMaxType   string
)

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountRmCmd)

	f := accountAddCmd.Flags()
	f.StringVar(&accountID, "id", "", "account id (default: generated)")
	f.Float64VarP(&accountBalance, "balance", "b", 0, "starting balance")
	f.Float64VarP(&accountTarget, "target", "t", 0, "profit target percent (0 disables)")
	f.Float64Var(&accountDaily, "daily", 0, "daily drawdown percent (0 disables)")
	f.StringVar(&accountDailyType, "daily-type", "", "daily drawdown type: static or trailing")
	f.Float64Var(&accountMax, "max", 0, "max drawdown percent (0 disables)")
	f.StringVar(&accountMaxType, "max-type", "", "max drawdown type: static or trailing")
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	a := cfg.Defaults.Account(args[0])
	a.ID = accountID

	f := cmd.Flags()
	if f.Changed("balance") {
		a.StartingBalance = accountBalance
	}
	if f.Changed("target") {
		a.ProfitTargetPct = accountTarget
	}
	if f.Changed("daily") {
		a.Daily.Enabled = accountDaily > 0
		a.Daily.Pct = accountDaily
	}
	if f.Changed("daily-type") {
		a.Daily.Type = equity.DrawdownType(accountDailyType)
	}
	if f.Changed("max") {
		a.Max.Enabled = accountMax > 0
		a.Max.Pct = accountMax
	}
	if f.Changed("max-type") {
		a.Max.Type = equity.DrawdownType(accountMaxType)
	}

	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CreateAccount(ctx, &a); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created account %s (%s)\n", a.Name, a.ID)
	return nil
}

func runAccountList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(accounts) == 0 {
		fmt.Fprintln(out, "No accounts.")
		return nil
	}
	fmt.Fprintf(out, "%-26s  %-24s  %14s\n", "ID", "NAME", "START")
	for _, a := range accounts {
		fmt.Fprintf(out, "%-26s  %-24s  %14.2f\n", a.ID, a.Name, a.StartingBalance)
	}
	return nil
}

func runAccountShow(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account:  %s (%s)\n", a.Name, a.ID)
	fmt.Fprintf(out, "  Start:  %.2f\n", a.StartingBalance)
	if target, ok := a.ProfitTarget(); ok {
		fmt.Fprintf(out, "  Target: %.2f (%g%%)\n", target, a.ProfitTargetPct)
	} else {
		fmt.Fprintln(out, "  Target: none")
	}
	if d, ok := a.DailyRule(); ok {
		fmt.Fprintf(out, "  Daily:  %g%% %s, resets %s %s\n", d.Pct, d.Type, d.ResetTime, d.ResetTimezone)
	} else {
		fmt.Fprintln(out, "  Daily:  none")
	}
	if m, ok := a.MaxRule(); ok {
		fmt.Fprintf(out, "  Max:    %g%% %s\n", m.Pct, m.Type)
	} else {
		fmt.Fprintln(out, "  Max:    none")
	}
	return nil
}

func runAccountRm(cmd *cobra.Command, args []string) error {
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
	if err := store.DeleteAccount(ctx, a.ID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed account %s (%s)\n", a.Name, a.ID)
	return nil
}

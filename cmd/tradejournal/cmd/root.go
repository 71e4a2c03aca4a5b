package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/equity"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/journal/pgstore"
	"github.com/rustyeddy/tradejournal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading journal with equity curves and prop-firm objectives",
	Long: `Tradejournal records trades per account and turns them into an equity
curve checked against the account's objectives.

It provides tools for:
  - Managing accounts with profit targets and drawdown limits
  - Importing and exporting trades as CSV
  - Charting balance against daily and max drawdown floors
  - Performance statistics as Org-mode reports
  - Serving all of the above as a JSON API

Complete documentation is available at https://github.com/rustyeddy/tradejournal`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile  string
	dbPath   string
	logLevel string

	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Journal.Type = "sqlite"
		c.Journal.DBPath = dbPath
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	cfg = c

	logger.Init(cfg.Logging.Level)
	return nil
}

// openStore opens the journal backend named by the config.
func openStore(ctx context.Context) (journal.Store, error) {
	switch cfg.Journal.Type {
	case "postgres":
		s, err := pgstore.Open(ctx, cfg.Journal.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres journal: %w", err)
		}
		return s, nil
	default:
		s, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return s, nil
	}
}

// resolveAccount finds an account by id, falling back to an exact name match.
func resolveAccount(ctx context.Context, store journal.Store, ref string) (equity.Account, error) {
	a, err := store.GetAccount(ctx, ref)
	if err == nil || !errors.Is(err, journal.ErrNotFound) {
		return a, err
	}

	accounts, lerr := store.ListAccounts(ctx)
	if lerr != nil {
		return equity.Account{}, lerr
	}
	for _, a := range accounts {
		if a.Name == ref {
			return a, nil
		}
	}
	return equity.Account{}, err
}

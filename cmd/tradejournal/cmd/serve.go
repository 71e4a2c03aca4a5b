package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/logger"
	"github.com/rustyeddy/tradejournal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal as a JSON API",
	Long: `Start the HTTP API. Routes live under /api/v1:

  GET    /accounts                      list accounts
  POST   /accounts                      create an account
  GET    /accounts/:id                  show an account
  DELETE /accounts/:id                  remove an account and its trades
  GET    /accounts/:id/trades           list trades (?format=csv for CSV)
  POST   /accounts/:id/trades           add one trade, a JSON array, or text/csv
  DELETE /accounts/:id/trades/:trade_id remove a trade
  GET    /accounts/:id/chart            equity curve, floors and axis
  GET    /accounts/:id/stats            performance statistics
  GET    /accounts/:id/objectives       target and drawdown status
  GET    /accounts/:id/report           Org-mode report

GET /health reports liveness.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Logger

	if servePort != "" {
		cfg.Server.Port = servePort
	}
	timeout, err := cfg.Server.Timeout()
	if err != nil {
		return fmt.Errorf("request timeout: %w", err)
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("journal", cfg.Journal.Type).Msg("journal opened")

	router := server.New(store, cfg.Defaults, timeout)

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		log.Info().Str("addr", addr).Msg("server listening")
		serverErr <- router.Listen(addr)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		log.Info().Msg("server shutdown complete")
	}
	return nil
}

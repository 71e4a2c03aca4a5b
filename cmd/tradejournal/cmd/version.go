package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradejournal CLI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tradejournal version %s\n", version)
		fmt.Fprintln(out, "A trading journal with equity curves and prop-firm objectives")
		fmt.Fprintln(out, "https://github.com/rustyeddy/tradejournal")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

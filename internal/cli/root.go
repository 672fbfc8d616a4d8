// Package cli wires the hourbank commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hourbank",
	Short: "A time-banking ledger for mutual aid networks",
	Long: `hourbank is a time-banking ledger: members exchange hours of labor
through offered services and pool hours into collective projects.
Every completed hour of work credits the provider and debits the
seeker, so the total supply of hours is conserved.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.hourbank/config.toml)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hourbank version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "hourbank %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

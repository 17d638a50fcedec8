// Package cmd contains the chain tooling commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var difficulty int

func init() {
	rootCmd.PersistentFlags().IntVarP(&difficulty, "difficulty", "d", 4, "Required count of leading zero characters in a block hash.")
}

var rootCmd = &cobra.Command{
	Use:   "chain",
	Short: "Single node proof-of-work ledger tooling",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

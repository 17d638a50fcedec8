package cmd

import (
	"fmt"

	"github.com/minechain/minechain/foundation/blockchain/block"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash [payload]...",
	Short: "Compute the transactions digest for a set of payloads",
	Args:  cobra.MinimumNArgs(1),
	Run:   hashRun,
}

func init() {
	rootCmd.AddCommand(hashCmd)
}

func hashRun(cmd *cobra.Command, args []string) {
	b := block.Block{Transactions: args}
	fmt.Println(b.HashTransactions())
}

package cmd

import (
	"github.com/minechain/minechain/foundation/blockchain/block"
	"github.com/minechain/minechain/foundation/blockchain/state"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var perBlock int

var mineCmd = &cobra.Command{
	Use:   "mine [payload]...",
	Short: "Mine the payloads into the chain and display every block",
	Args:  cobra.MinimumNArgs(1),
	RunE:  mineRun,
}

func init() {
	mineCmd.Flags().IntVarP(&perBlock, "per-block", "n", 0, "Payloads per block. Zero mines everything into one block.")
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	st, err := state.New(state.Config{
		Difficulty: difficulty,
	})
	if err != nil {
		return err
	}

	for _, batch := range splitBatches(args, perBlock) {
		for _, payload := range batch {
			st.SubmitTransaction(payload)
		}

		spinner, _ := pterm.DefaultSpinner.Start("mining")
		blk, err := st.MineNewBlock(cmd.Context())
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success(pterm.Sprintf("block %d mined: %s", blk.Index, blk.Hash))
	}

	renderChain(st.RetrieveChain())

	return nil
}

// splitBatches chunks the payloads so each chunk is mined into its own block.
func splitBatches(payloads []string, size int) [][]string {
	if size <= 0 || size >= len(payloads) {
		return [][]string{payloads}
	}

	var batches [][]string
	for size < len(payloads) {
		batches = append(batches, payloads[:size])
		payloads = payloads[size:]
	}
	batches = append(batches, payloads)

	return batches
}

// renderChain displays every block from genesis to tip.
func renderChain(chain []block.Block) {
	for _, blk := range chain {
		title := pterm.Sprintf("block %d", blk.Index)
		if blk.Index == 0 {
			title = "genesis"
		}

		data := pterm.Sprintf("hash:  %s\nprev:  %s\nnonce: %d\ntrans: %s",
			blk.Hash, blk.PrevHash, blk.Nonce, blk.TransRoot)
		for _, tx := range blk.Transactions {
			data += pterm.Sprintf("\n  - %s", tx)
		}

		pterm.DefaultBox.WithTitle(title).WithTitleTopLeft().Println(data)
	}
}

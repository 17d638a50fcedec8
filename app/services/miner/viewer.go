package main

import (
	"encoding/json"
	"strings"

	"github.com/minechain/minechain/foundation/blockchain/block"
	"github.com/pterm/pterm"
)

// renderBlockEvent pretty prints a mined block event to the terminal.
func renderBlockEvent(msg string) {
	const prefix = "viewer: block: "

	if !strings.HasPrefix(msg, prefix) {
		return
	}

	var blk block.Block
	if err := json.Unmarshal([]byte(strings.TrimPrefix(msg, prefix)), &blk); err != nil {
		return
	}

	box := pterm.DefaultBox.WithTitle(pterm.Sprintf("block %d", blk.Index)).WithTitleTopLeft()
	box.Println(pterm.Sprintf("hash:  %s\nprev:  %s\nnonce: %d\ntxs:   %d", blk.Hash, blk.PrevHash, blk.Nonce, len(blk.Transactions)))
}

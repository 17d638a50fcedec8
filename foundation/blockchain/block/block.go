// Package block implements the tamper-evident record that batches
// transactions into the chain.
package block

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ZeroHash is the parent hash carried by the genesis block.
const ZeroHash = "0"

// Block represents a group of transactions batched together with the
// metadata binding it to the chain. Accepted blocks are stored by value so
// nothing downstream can reach back and change them.
type Block struct {
	Index        uint64   `json:"index"`
	Timestamp    uint64   `json:"timestamp"`
	PrevHash     string   `json:"prev_hash"`
	Nonce        uint64   `json:"nonce"`
	TransRoot    string   `json:"trans_root"`
	Hash         string   `json:"hash"`
	Transactions []string `json:"transactions"`
}

// New constructs a block for the specified position in the chain. The
// transactions digest and the block hash are computed here so a freshly
// constructed block is always internally consistent. Construction cannot
// fail, an empty batch is a valid batch.
func New(index uint64, timestamp uint64, prevHash string, trans []string) Block {
	b := Block{
		Index:        index,
		Timestamp:    timestamp,
		PrevHash:     prevHash,
		Transactions: trans,
	}

	b.TransRoot = b.HashTransactions()
	b.Hash = b.ComputeHash()

	return b
}

// Genesis constructs the index zero block. It carries no transactions and
// the zero parent hash, but its own hash is computed like any other block.
func Genesis() Block {
	return New(0, uint64(time.Now().UTC().Unix()), ZeroHash, nil)
}

// HashTransactions returns the digest over the transaction payloads. The
// payloads are joined with no separator, so the digest covers the combined
// text and not the split between payloads.
func (b Block) HashTransactions() string {
	hash := sha256.Sum256([]byte(strings.Join(b.Transactions, "")))
	return hex.EncodeToString(hash[:])
}

// ComputeHash returns the digest over the header fields, including the
// stored transactions digest. Recomputing it on an unchanged block yields
// the same value every time.
func (b Block) ComputeHash() string {
	header := fmt.Sprintf("%d%d%s%d%s", b.Index, b.Timestamp, b.PrevHash, b.Nonce, b.TransRoot)
	hash := sha256.Sum256([]byte(header))
	return hex.EncodeToString(hash[:])
}

// PerformPOW increments the nonce from its current value, recomputing the
// block hash, until the hash satisfies the difficulty target. Pointer
// semantics are being used since a nonce is being discovered. There is no
// upper bound on iterations, cancel the context to stop the search.
func (b *Block) PerformPOW(ctx context.Context, difficulty int, ev func(v string, args ...any)) error {
	ev("block: PerformPOW: MINING: started: blk[%d]", b.Index)
	defer ev("block: PerformPOW: MINING: completed: blk[%d]", b.Index)

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("block: PerformPOW: MINING: attempts[%d]", attempts)
		}

		// Did the caller give up on the search.
		if ctx.Err() != nil {
			ev("block: PerformPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		b.Hash = b.ComputeHash()
		if !IsHashSolved(difficulty, b.Hash) {
			b.Nonce++
			continue
		}

		ev("block: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.PrevHash, b.Hash)
		ev("block: PerformPOW: MINING: attempts[%d]", attempts)

		return nil
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func IsHashSolved(difficulty int, hash string) bool {
	const match = "00000000000000000000000000000000"

	if len(hash) != 64 {
		return false
	}

	if difficulty < 0 || difficulty > len(match) {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}

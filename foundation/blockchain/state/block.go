package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/minechain/minechain/foundation/blockchain/block"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there is nothing in the mempool to put in it.
var ErrNoTransactions = errors.New("no transactions in mempool")

// ErrWrongParent is returned from the admission gate when a candidate's
// parent hash does not match the current chain tip.
var ErrWrongParent = errors.New("parent hash does not match the latest block")

// ErrInvalidProof is returned from the admission gate when a candidate's
// hash misses the difficulty target or no longer matches its own fields.
var ErrInvalidProof = errors.New("block hash does not satisfy the proof of work")

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain.
func (s *State) MineNewBlock(ctx context.Context) (block.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	trans, parent, err := s.snapshotMining()
	if err != nil {
		return block.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: txs[%d]", len(trans))

	// Construct the candidate block to be mined. This can be cancelled.
	nb := block.New(parent.Index+1, uint64(time.Now().UTC().Unix()), parent.Hash, trans)

	if err := nb.PerformPOW(ctx, s.difficulty, s.evHandler); err != nil {
		s.mempool.Requeue(trans)
		return block.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		s.mempool.Requeue(trans)
		return block.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: validate and update chain")

	// Run the sealed candidate through the admission gate. If the tip moved
	// while we were searching, the payloads go back to the head of the pool.
	if err := s.validateUpdateChain(nb); err != nil {
		s.mempool.Requeue(trans)
		return block.Block{}, err
	}

	return nb, nil
}

// ProcessBlock runs a candidate block through the admission gate and, if it
// passes, appends it to the chain. The chain is untouched on any rejection.
func (s *State) ProcessBlock(b block.Block) error {
	s.evHandler("state: ProcessBlock: started: prevBlk[%s]: newBlk[%s]: txs[%d]", b.PrevHash, b.Hash, len(b.Transactions))
	defer s.evHandler("state: ProcessBlock: completed: newBlk[%s]", b.Hash)

	return s.validateUpdateChain(b)
}

// =============================================================================

// snapshotMining drains the mempool and captures the chain tip in a single
// critical section so no submission is lost or double included.
func (s *State) snapshotMining() ([]string, block.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mempool.Count() == 0 {
		return nil, block.Block{}, ErrNoTransactions
	}

	return s.mempool.Drain(), s.chain[len(s.chain)-1], nil
}

// validateUpdateChain takes the candidate block and validates it against
// the admission rules. This is the sole serialization point for the chain
// tip, so a block mined against a superseded tip is rejected here. The
// checks are ordered and short-circuit on the first failure.
func (s *State) validateUpdateChain(b block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: validateUpdateChain: validate: blk[%d]: check: parent hash does match the chain tip", b.Index)

	tip := s.chain[len(s.chain)-1]
	if b.PrevHash != tip.Hash {
		return fmt.Errorf("got %s, exp %s: %w", b.PrevHash, tip.Hash, ErrWrongParent)
	}

	s.evHandler("state: validateUpdateChain: validate: blk[%d]: check: block hash has been solved", b.Index)

	if !block.IsHashSolved(s.difficulty, b.Hash) {
		return fmt.Errorf("hash %s misses the difficulty target %d: %w", b.Hash, s.difficulty, ErrInvalidProof)
	}

	s.evHandler("state: validateUpdateChain: validate: blk[%d]: check: block hash does match its fields", b.Index)

	if b.Hash != b.ComputeHash() {
		return fmt.Errorf("stored hash %s does not match the block fields: %w", b.Hash, ErrInvalidProof)
	}

	s.evHandler("state: validateUpdateChain: validate: blk[%d]: check: transactions digest does match the payloads", b.Index)

	if b.TransRoot != b.HashTransactions() {
		return fmt.Errorf("transactions digest %s does not match the payloads: %w", b.TransRoot, ErrInvalidProof)
	}

	s.chain = append(s.chain, b)

	// Send an event about this new block.
	s.blockEvent(b)

	return nil
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(b block.Block) {
	blockJSON, err := json.Marshal(b)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: %s`, string(blockJSON))
}

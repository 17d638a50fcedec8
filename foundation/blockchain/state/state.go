// Package state is the core API for the chain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"sync"

	"github.com/minechain/minechain/business/sys/validate"
	"github.com/minechain/minechain/foundation/blockchain/block"
	"github.com/minechain/minechain/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of mining and admitting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the chain engine.
type Config struct {
	Difficulty int `validate:"required,gte=1,lte=32"`
	EvHandler  EventHandler
}

// State manages the chain of accepted blocks and the pool of unconfirmed
// transactions.
type State struct {
	mu sync.Mutex

	difficulty int
	chain      []block.Block
	mempool    *mempool.Mempool
	evHandler  EventHandler

	Worker Worker
}

// New constructs a new chain engine for data management.
func New(cfg Config) (*State, error) {
	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	state := State{
		difficulty: cfg.Difficulty,
		mempool:    mempool.New(),
		evHandler:  ev,
	}

	// The chain is never empty. The genesis block is trusted by
	// construction and bypasses the admission gate.
	state.chain = append(state.chain, block.Genesis())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the engine down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all block producing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// SubmitTransaction adds a payload to the mempool and returns the resulting
// pool depth. The payload content is not inspected.
func (s *State) SubmitTransaction(payload string) int {
	depth := s.mempool.Add(payload)
	s.evHandler("state: SubmitTransaction: payload queued: depth[%d]", depth)

	return depth
}

// QueryMempoolLength returns the current number of payloads in the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// MempoolCopy returns a copy of the mempool in submission order.
func (s *State) MempoolCopy() []string {
	return s.mempool.Copy()
}

// RetrieveLatestBlock returns a copy of the current chain tip.
func (s *State) RetrieveLatestBlock() block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain[len(s.chain)-1]
}

// RetrieveChain returns a copy of the chain from genesis to tip.
func (s *State) RetrieveChain() []block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := make([]block.Block, len(s.chain))
	copy(chain, s.chain)

	return chain
}

// Difficulty returns the required number of leading zero characters in an
// accepted block hash.
func (s *State) Difficulty() int {
	return s.difficulty
}

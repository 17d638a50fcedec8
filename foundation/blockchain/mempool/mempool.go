// Package mempool maintains the pool of transactions waiting to be mined
// into a block.
package mempool

import "sync"

// Mempool represents the pending transaction payloads in submission order.
// Order matters because it changes the transactions digest of the block the
// payloads end up in.
type Mempool struct {
	mu   sync.RWMutex
	pool []string
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of payloads in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a payload to the pool and returns the resulting pool depth.
// Any content is accepted, duplicates included.
func (mp *Mempool) Add(payload string) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, payload)

	return len(mp.pool)
}

// Copy returns a copy of the pool in submission order.
func (mp *Mempool) Copy() []string {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]string, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Drain returns the pool in submission order and leaves the pool empty.
// Used to snapshot the payloads for a candidate block.
func (mp *Mempool) Drain() []string {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := mp.pool
	mp.pool = nil

	return pool
}

// Requeue places payloads back at the head of the pool, ahead of anything
// submitted since they were drained. Used when a mined block is rejected so
// its transactions are not lost.
func (mp *Mempool) Requeue(payloads []string) {
	if len(payloads) == 0 {
		return
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]string, 0, len(payloads)+len(mp.pool))
	pool = append(pool, payloads...)
	pool = append(pool, mp.pool...)
	mp.pool = pool
}

// Truncate clears all the payloads from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

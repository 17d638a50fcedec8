package worker_test

import (
	"testing"
	"time"

	"github.com/minechain/minechain/foundation/blockchain/state"
	"github.com/minechain/minechain/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func noopEv(v string, args ...any) {}

// waitForChainLength polls the engine until the chain reaches the specified
// length or the deadline expires.
func waitForChainLength(st *state.State, length int, deadline time.Duration) bool {
	timeout := time.After(deadline)
	for {
		select {
		case <-timeout:
			return false
		case <-time.After(10 * time.Millisecond):
			if len(st.RetrieveChain()) >= length {
				return true
			}
		}
	}
}

func Test_BackgroundMining(t *testing.T) {
	t.Log("Given the need to mine submitted transactions in the background.")
	{
		st, err := state.New(state.Config{Difficulty: 1, EvHandler: noopEv})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the engine: %s", failed, err)
		}

		worker.Run(st, noopEv)
		defer st.Shutdown()

		st.SubmitTransaction("A pays B 1 unit")
		st.Worker.SignalStartMining()

		if !waitForChainLength(st, 2, 5*time.Second) {
			t.Fatalf("\t%s\tShould mine a block within the deadline.", failed)
		}
		t.Logf("\t%s\tShould mine a block within the deadline.", success)

		// A second submission keeps the worker going through its re-signal.
		st.SubmitTransaction("B pays C 2 units")
		st.Worker.SignalStartMining()

		if !waitForChainLength(st, 3, 5*time.Second) {
			t.Fatalf("\t%s\tShould mine a second block within the deadline.", failed)
		}
		t.Logf("\t%s\tShould mine a second block within the deadline.", success)

		chain := st.RetrieveChain()
		if chain[2].PrevHash != chain[1].Hash {
			t.Fatalf("\t%s\tShould link the mined blocks.", failed)
		}
		t.Logf("\t%s\tShould link the mined blocks.", success)
	}
}

func Test_ShutdownCancelsMining(t *testing.T) {
	t.Log("Given the need to shut down while a mining search is running.")
	{
		st, err := state.New(state.Config{Difficulty: 32, EvHandler: noopEv})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the engine: %s", failed, err)
		}

		worker.Run(st, noopEv)

		st.SubmitTransaction("A pays B 1 unit")
		st.Worker.SignalStartMining()

		// Give the worker time to enter the search before shutting down.
		time.Sleep(100 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			st.Shutdown()
			close(done)
		}()

		select {
		case <-done:
			t.Logf("\t%s\tShould shut down promptly.", success)
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould shut down promptly.", failed)
		}

		if len(st.RetrieveChain()) != 1 {
			t.Fatalf("\t%s\tShould leave the chain untouched.", failed)
		}
		t.Logf("\t%s\tShould leave the chain untouched.", success)

		if st.QueryMempoolLength() != 1 {
			t.Fatalf("\t%s\tShould requeue the cancelled payload.", failed)
		}
		t.Logf("\t%s\tShould requeue the cancelled payload.", success)
	}
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/minechain/minechain/foundation/blockchain/state"
	"github.com/minechain/minechain/foundation/blockchain/worker"
	"github.com/minechain/minechain/foundation/events"
	"github.com/minechain/minechain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("MINER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Chain struct {
			Difficulty int `conf:"default:4"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "MINER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Chain Engine Support

	// A block event makes it to the viewer through this events value.
	evts := events.New()
	defer evts.Shutdown()

	// Build the event handler that routes engine events to the log and the
	// viewer prefixed events to the events value.
	ev := func(v string, args ...any) {
		const viewerPrefix = "viewer:"

		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		if strings.HasPrefix(s, viewerPrefix) {
			evts.Send(s)
		}
	}

	st, err := state.New(state.Config{
		Difficulty: cfg.Chain.Difficulty,
		EvHandler:  ev,
	})
	if err != nil {
		return fmt.Errorf("starting chain engine: %w", err)
	}
	defer st.Shutdown()

	worker.Run(st, ev)

	// =========================================================================
	// Block Viewer Support

	ch := evts.Acquire("miner")
	defer evts.Release("miner")

	go func() {
		for msg := range ch {
			renderBlockEvent(msg)
		}
	}()

	// =========================================================================
	// Accept transaction payloads from stdin, one per line.

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		defer close(lines)

		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				log.Infow("shutdown", "status", "stdin closed")
				return nil
			}

			if strings.TrimSpace(line) == "" {
				continue
			}

			depth := st.SubmitTransaction(line)
			log.Infow("transaction submitted", "depth", depth)

			st.Worker.SignalStartMining()

		case sig := <-shutdown:
			log.Infow("shutdown", "status", "shutdown started", "signal", sig)
			return nil
		}
	}
}

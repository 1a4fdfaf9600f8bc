// Package cmd contains the ledger tooling commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minichain/ledger/business/core/scenario"
	"github.com/minichain/ledger/business/sys/display"
	"github.com/minichain/ledger/foundation/blockchain/chain"
	"github.com/minichain/ledger/foundation/blockchain/genesis"
	"github.com/minichain/ledger/foundation/events"
	"github.com/spf13/cobra"
)

var (
	difficulty  uint
	workers     int
	maxNonce    uint64
	genesisFile string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().UintVarP(&difficulty, "difficulty", "d", 0, "Leading zero hex digits required, 0 uses the genesis difficulty.")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "Goroutines used per proof of work search.")
	rootCmd.PersistentFlags().Uint64Var(&maxNonce, "max-nonce", 0, "Largest nonce tried per block, 0 is unbounded.")
	rootCmd.PersistentFlags().StringVarP(&genesisFile, "genesis", "g", "", "Path to a genesis file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print chain events as they happen.")
}

var rootCmd = &cobra.Command{
	Use:          "ledger",
	Short:        "In-memory proof of work ledger",
	SilenceUsage: true,
}

// Execute runs the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================

// loadGenesis returns the genesis to start the chain with after applying
// the command line overrides.
func loadGenesis() (genesis.Genesis, error) {
	gen := genesis.Default()
	if genesisFile != "" {
		var err error
		if gen, err = genesis.Load(genesisFile); err != nil {
			return genesis.Genesis{}, err
		}
	}

	if difficulty != 0 {
		gen.Difficulty = difficulty
	}

	return gen, nil
}

// runScenario replays the scenario on a new chain and prints the chain, its
// validity and the resulting balances.
func runScenario(cmd *cobra.Command, sc scenario.Scenario) error {
	gen, err := loadGenesis()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	// Chain events are fanned out to a printer. Only mining milestones and
	// rejections are printed unless verbose is set.
	evts := events.New()
	defer evts.Shutdown()

	id, ch := evts.Acquire()
	printed := make(chan struct{})
	go func() {
		display.Events(out, ch, verbose)
		close(printed)
	}()

	c, err := chain.New(ctx, chain.Config{
		Genesis:  gen,
		Workers:  workers,
		MaxNonce: maxNonce,
		EvHandler: func(v string, args ...any) {
			evts.Send(fmt.Sprintf(v, args...))
		},
	})
	if err != nil {
		evts.Release(id)
		<-printed
		return err
	}

	res, err := scenario.Run(ctx, c, sc)

	// Wait for the printer to drain before writing anything else.
	evts.Release(id)
	<-printed

	if err != nil {
		return err
	}

	for _, rej := range res.Rejected {
		fmt.Fprintf(out, "step %d: %s\n", rej.Step, rej.Err)
	}

	chainTable, err := display.Chain(c.Blocks())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, chainTable)
	fmt.Fprintln(out, display.Validity(res.ChainValid))

	latest := c.LatestBlock()
	fmt.Fprintf(out, "latest block: %d %s\n", latest.Header.Number, latest.Header.Hash)

	balanceTable, err := display.Balances(c.Balances(), sc.Accounts())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, balanceTable)

	return nil
}

// Package chain is the core API for the blockchain and implements the
// business rules for staging transactions, sealing blocks, deriving balances
// and validating the chain.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/minichain/ledger/foundation/blockchain/balance"
	"github.com/minichain/ledger/foundation/blockchain/database"
	"github.com/minichain/ledger/foundation/blockchain/genesis"
)

// EventHandler defines a function that is called when events
// occur in the processing of the chain.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the chain.
type Config struct {
	Genesis   genesis.Genesis // Difficulty and genesis mint, genesis.Default supplies difficulty 2.
	Workers   int             // Goroutines used per proof of work search, 0 or 1 searches sequentially.
	MaxNonce  uint64          // Largest nonce tried per block, 0 leaves the search unbounded.
	EvHandler EventHandler
}

// Chain manages an ordered sequence of sealed blocks and the transactions
// waiting to be sealed into the next one.
type Chain struct {
	mu         sync.RWMutex
	genesis    genesis.Genesis
	difficulty uint
	evHandler  EventHandler
	powOptions []database.POWOption

	blocks  []database.Block
	pending []database.Tx
	sheet   *balance.Sheet
}

// New constructs a chain and seals the genesis block. The genesis block holds
// a single mint transaction to the configured recipient.
func New(ctx context.Context, cfg Config) (*Chain, error) {
	if cfg.Genesis.Recipient == "" {
		return nil, errors.New("genesis recipient must not be empty")
	}
	if cfg.Genesis.Amount > math.MaxInt64 {
		return nil, fmt.Errorf("genesis amount %d: %w", cfg.Genesis.Amount, ErrAmountOverflow)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	opts := []database.POWOption{
		database.WithWorkers(cfg.Workers),
		database.WithEvHandler(database.EventHandler(ev)),
	}
	if cfg.MaxNonce > 0 {
		opts = append(opts, database.WithMaxNonce(cfg.MaxNonce))
	}

	c := Chain{
		genesis:    cfg.Genesis,
		difficulty: cfg.Genesis.Difficulty,
		evHandler:  ev,
		powOptions: opts,
		sheet:      balance.NewSheet(nil),
	}

	if err := c.createGenesisBlock(ctx); err != nil {
		return nil, fmt.Errorf("creating genesis block: %w", err)
	}

	return &c, nil
}

// createGenesisBlock stages the genesis mint and seals it into block 0.
func (c *Chain) createGenesisBlock(ctx context.Context) error {
	c.evHandler("chain: createGenesisBlock: started: recipient[%s]: amount[%d]", c.genesis.Recipient, c.genesis.Amount)
	defer c.evHandler("chain: createGenesisBlock: completed")

	c.pending = append(c.pending, database.NewMintTx(database.AccountID(c.genesis.Recipient), c.genesis.Amount))

	block, err := database.POW(ctx, database.POWArgs{
		Number:        0,
		PrevBlockHash: database.GenesisPrevBlockHash,
		Difficulty:    c.difficulty,
		Trans:         c.pending,
		Options:       c.powOptions,
	})
	if err != nil {
		return err
	}

	c.appendBlock(block)

	return nil
}

// appendBlock adds the sealed block to the chain, applies it to the balance
// sheet and clears the pending transactions. The caller must hold the lock
// or be constructing the chain.
func (c *Chain) appendBlock(block database.Block) {
	c.blocks = append(c.blocks, block)
	c.sheet.ApplyBlock(block)
	c.pending = nil
}

package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/minichain/ledger/foundation/blockchain/database"
	"github.com/minichain/ledger/foundation/blockchain/genesis"
)

func TestCorruption(t *testing.T) {
	type table struct {
		name    string
		block   int
		corrupt func(b *database.Block)
		err     error
	}

	tt := []table{
		{name: "hash", block: 2, corrupt: func(b *database.Block) { b.Header.Hash = "0" + b.Header.Hash[1:len(b.Header.Hash)-1] + "x" }, err: database.ErrHashMismatch},
		{name: "unsolved-hash", block: 1, corrupt: func(b *database.Block) { b.Header.Hash = "f" + b.Header.Hash[1:] }, err: database.ErrHashUnsolved},
		{name: "previous-hash", block: 1, corrupt: func(b *database.Block) { b.Header.PrevBlockHash = "00ff" }, err: database.ErrBrokenLink},
		{name: "amount", block: 1, corrupt: func(b *database.Block) { b.Trans[0].Amount = 1000 }, err: database.ErrHashMismatch},
		{name: "nonce", block: 2, corrupt: func(b *database.Block) { b.Header.Nonce++ }, err: database.ErrHashMismatch},
		{name: "parent-hash", block: 1, corrupt: func(b *database.Block) { b.Header.Hash = "0" + b.Header.Hash[2:] + "0" }, err: database.ErrHashMismatch},
	}

	t.Log("Given the need to detect tampering with sealed blocks.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the %s of block %d is changed.", testID, tst.name, tst.block)
				{
					ctx := context.Background()

					c, err := New(ctx, Config{Genesis: genesis.Genesis{Difficulty: 1, Recipient: "Alice", Amount: 100}})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct the chain: %v", failed, testID, err)
					}

					if err := c.AddTransaction("Alice", "Bob", 40); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to add a transaction: %v", failed, testID, err)
					}
					if _, err := c.AddBlock(ctx); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to add block 1: %v", failed, testID, err)
					}
					if _, err := c.AddBlock(ctx); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to add block 2: %v", failed, testID, err)
					}

					if !c.IsChainValid() {
						t.Fatalf("\t%s\tTest %d:\tShould be valid before tampering.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be valid before tampering.", success, testID)

					tst.corrupt(&c.blocks[tst.block])

					if c.IsChainValid() {
						t.Fatalf("\t%s\tTest %d:\tShould be invalid after tampering.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be invalid after tampering.", success, testID)

					if err := c.Validate(); !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould fail with %v, got %v.", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould fail with %v.", success, testID, tst.err)

					// A corrupted chain is still queryable.
					_ = c.Balance("Alice")
					_ = c.Blocks()
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestGenesisNotChecked(t *testing.T) {
	t.Log("Given the need to trust the genesis block.")
	{
		t.Logf("\tTest 0:\tWhen only the genesis block exists and it is changed.")
		{
			c, err := New(context.Background(), Config{Genesis: genesis.Genesis{Difficulty: 1, Recipient: "Alice", Amount: 100}})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the chain: %v", failed, err)
			}

			c.blocks[0].Trans[0].Amount = 5

			if !c.IsChainValid() {
				t.Fatalf("\t%s\tTest 0:\tShould not check the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not check the genesis block.", success)
		}
	}
}

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

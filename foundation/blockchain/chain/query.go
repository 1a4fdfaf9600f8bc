package chain

import (
	"github.com/minichain/ledger/foundation/blockchain/database"
	"github.com/minichain/ledger/foundation/blockchain/genesis"
)

// Balance returns the balance for the account across the sealed blocks and
// the pending transactions. An account that has never transacted has a
// balance of 0.
func (c *Chain) Balance(account database.AccountID) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.balance(account)
}

// Balances returns the balance of every account that has transacted across
// the sealed blocks and the pending transactions.
func (c *Chain) Balances() map[database.AccountID]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	balances := c.sheet.Copy()
	for _, tx := range c.pending {
		balances[tx.Recipient] += int64(tx.Amount)
		balances[tx.Sender] -= int64(tx.Amount)
	}
	return balances
}

// RescanBalance computes the balance for the account by walking every
// sealed block in order followed by the pending transactions. It produces
// the same result as Balance without the use of the balance sheet.
func (c *Chain) RescanBalance(account database.AccountID) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var bal int64
	for _, block := range c.blocks {
		bal += delta(account, block.Trans)
	}
	bal += delta(account, c.pending)

	return bal
}

// Blocks returns a copy of the sealed blocks in chain order.
func (c *Chain) Blocks() []database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]database.Block, len(c.blocks))
	for i, block := range c.blocks {
		blocks[i] = block.Copy()
	}
	return blocks
}

// LatestBlock returns the last block sealed into the chain.
func (c *Chain) LatestBlock() database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.blocks[len(c.blocks)-1].Copy()
}

// Pending returns a copy of the transactions waiting for the next block.
func (c *Chain) Pending() []database.Tx {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pending := make([]database.Tx, len(c.pending))
	copy(pending, c.pending)
	return pending
}

// Difficulty returns the difficulty every block must meet.
func (c *Chain) Difficulty() uint {
	return c.difficulty
}

// Genesis returns the genesis information the chain was started with.
func (c *Chain) Genesis() genesis.Genesis {
	return c.genesis
}

// =============================================================================

// balance computes the balance with the lock already held.
func (c *Chain) balance(account database.AccountID) int64 {
	return c.sheet.Balance(account) + delta(account, c.pending)
}

// delta sums what the transactions credit and debit the account.
func delta(account database.AccountID, trans []database.Tx) int64 {
	var bal int64
	for _, tx := range trans {
		if tx.Recipient == account {
			bal += int64(tx.Amount)
		}
		if tx.Sender == account {
			bal -= int64(tx.Amount)
		}
	}
	return bal
}

package chain

import (
	"context"

	"github.com/minichain/ledger/foundation/blockchain/database"
)

// AddBlock seals the pending transactions into a new block and appends it to
// the chain. A block is sealed even when there are no pending transactions.
// If the proof of work fails, through cancellation or an exhausted nonce
// bound, the chain and the pending transactions are left unchanged.
func (c *Chain) AddBlock(ctx context.Context) (database.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.blocks[len(c.blocks)-1]

	c.evHandler("chain: AddBlock: MINING: blk[%d]: pending[%d]", latest.Header.Number+1, len(c.pending))

	block, err := database.POW(ctx, database.POWArgs{
		Number:        latest.Header.Number + 1,
		PrevBlockHash: latest.Header.Hash,
		Difficulty:    c.difficulty,
		Trans:         c.pending,
		Options:       c.powOptions,
	})
	if err != nil {
		c.evHandler("chain: AddBlock: MINING: ERROR: %s", err)
		return database.Block{}, err
	}

	c.appendBlock(block)

	c.evHandler("chain: AddBlock: MINING: appended: blk[%d]: hash[%s]", block.Header.Number, block.Header.Hash)

	return block.Copy(), nil
}

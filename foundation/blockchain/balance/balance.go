// Package balance maintains account balances in memory.
package balance

import (
	"sync"

	"github.com/minichain/ledger/foundation/blockchain/database"
)

// Sheet represents the data representation to maintain account balances.
// Balances are signed since the system account goes negative as it mints.
type Sheet struct {
	sheet map[database.AccountID]int64
	mu    sync.RWMutex
}

// NewSheet constructs a new balance sheet for use and applies the
// transactions of the specified blocks in order.
func NewSheet(blocks []database.Block) *Sheet {
	bs := Sheet{
		sheet: make(map[database.AccountID]int64),
	}

	for _, block := range blocks {
		bs.ApplyBlock(block)
	}

	return &bs
}

// ApplyBlock performs the accounting for every transaction in the block.
func (bs *Sheet) ApplyBlock(block database.Block) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	for _, tx := range block.Trans {
		bs.apply(tx)
	}
}

// Balance returns the balance for the account. An account that has never
// transacted has a balance of 0.
func (bs *Sheet) Balance(account database.AccountID) int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return bs.sheet[account]
}

// Copy makes a copy of the current balance sheet but returns the raw data.
func (bs *Sheet) Copy() map[database.AccountID]int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	sheet := make(map[database.AccountID]int64, len(bs.sheet))
	for account, value := range bs.sheet {
		sheet[account] = value
	}
	return sheet
}

// =============================================================================

// apply moves the value. The recipient is credited before the sender is
// debited, so a transfer to oneself nets to zero.
func (bs *Sheet) apply(tx database.Tx) {
	bs.sheet[tx.Recipient] += int64(tx.Amount)
	bs.sheet[tx.Sender] -= int64(tx.Amount)
}

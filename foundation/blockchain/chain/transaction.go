package chain

import (
	"errors"
	"fmt"
	"math"

	"github.com/minichain/ledger/foundation/blockchain/database"
)

// Set of errors returned from AddTransaction.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAmountOverflow      = errors.New("amount overflows balance")
)

// =============================================================================

// AddTransaction stages a transfer into the pending transactions. Senders
// other than the system account must hold a balance, across the sealed
// blocks and the pending transactions, of at least the amount. A transfer
// that would move a balance outside the int64 range is refused. A rejected
// transaction leaves the chain unchanged.
func (c *Chain) AddTransaction(sender database.AccountID, recipient database.AccountID, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount > math.MaxInt64 {
		c.evHandler("chain: AddTransaction: Failed to add transaction: amount[%d] is too large", amount)
		return fmt.Errorf("amount %d: %w", amount, ErrAmountOverflow)
	}
	value := int64(amount)

	senderBal := c.balance(sender)
	if sender != database.SystemAccount {
		if senderBal < value {
			c.evHandler("chain: AddTransaction: Failed to add transaction: Sender '%s' has insufficient balance!", sender)
			return fmt.Errorf("sender %s, balance %d, amount %d: %w", sender, senderBal, amount, ErrInsufficientBalance)
		}
	}

	// The system account runs negative as it mints.
	if senderBal < math.MinInt64+value {
		c.evHandler("chain: AddTransaction: Failed to add transaction: debit to '%s' overflows", sender)
		return fmt.Errorf("sender %s, balance %d, amount %d: %w", sender, senderBal, amount, ErrAmountOverflow)
	}

	if sender != recipient {
		if recipientBal := c.balance(recipient); recipientBal > math.MaxInt64-value {
			c.evHandler("chain: AddTransaction: Failed to add transaction: credit to '%s' overflows", recipient)
			return fmt.Errorf("recipient %s, balance %d, amount %d: %w", recipient, recipientBal, amount, ErrAmountOverflow)
		}
	}

	tx := database.NewTx(sender, recipient, amount)
	c.pending = append(c.pending, tx)

	c.evHandler("chain: AddTransaction: tx[%s]: pending[%d]", tx, len(c.pending))

	return nil
}

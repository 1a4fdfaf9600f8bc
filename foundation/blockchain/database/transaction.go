package database

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SystemAccount is the sender used for minted value. Transactions from this
// account are never checked against a balance.
const SystemAccount AccountID = "SYSTEM"

// AccountID represents a named account that sends and receives value
// on the blockchain.
type AccountID string

// =============================================================================

// Tx is the transactional information between two parties. A Tx is a value;
// once it is sealed into a block it is never changed.
type Tx struct {
	Sender    AccountID      `json:"sender"`              // Account giving up the value.
	Recipient AccountID      `json:"recipient"`           // Account receiving the value.
	Amount    uint64         `json:"amount"`              // Value being moved.
	Signature *hexutil.Bytes `json:"signature,omitempty"` // Inert. Nil means the record has no signature slot.
}

// NewTx constructs an ordinary transfer. Ordinary transfers carry no
// signature slot.
func NewTx(sender AccountID, recipient AccountID, amount uint64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// NewMintTx constructs a transaction from the system account that carries an
// empty signature slot. This is the shape of the genesis transaction.
func NewMintTx(recipient AccountID, amount uint64) Tx {
	return Tx{
		Sender:    SystemAccount,
		Recipient: recipient,
		Amount:    amount,
		Signature: new(hexutil.Bytes),
	}
}

// HasSignatureSlot reports whether the transaction carries a signature key
// in its encoded form.
func (tx Tx) HasSignatureSlot() bool {
	return tx.Signature != nil
}

// Equal compares two transactions by value.
func (tx Tx) Equal(other Tx) bool {
	if tx.Sender != other.Sender || tx.Recipient != other.Recipient || tx.Amount != other.Amount {
		return false
	}

	if tx.HasSignatureSlot() != other.HasSignatureSlot() {
		return false
	}

	if !tx.HasSignatureSlot() {
		return true
	}

	return bytes.Equal(*tx.Signature, *other.Signature)
}

// MarshalJSON implements the json.Marshaler interface using the same
// encoding that feeds the block hash.
func (tx Tx) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeTx(&buf, tx)
	return buf.Bytes(), nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}

// =============================================================================

// copyTrans makes a copy of the transactions so a block never shares its
// backing array with the caller.
func copyTrans(trans []Tx) []Tx {
	cpy := make([]Tx, len(trans))
	for i, tx := range trans {
		if tx.Signature != nil {
			sig := make(hexutil.Bytes, len(*tx.Signature))
			copy(sig, *tx.Signature)
			tx.Signature = &sig
		}
		cpy[i] = tx
	}
	return cpy
}

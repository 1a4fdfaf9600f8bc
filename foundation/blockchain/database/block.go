// Package database handles the lower level support for the blockchain: the
// transaction and block values, the block hash, and the proof of work that
// seals a block.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/minichain/ledger/foundation/blockchain/signature"
)

// GenesisPrevBlockHash is the previous block hash recorded by the genesis
// block since it has no parent.
const GenesisPrevBlockHash = "0"

// Set of errors returned when a block fails validation against its parent.
var (
	ErrBrokenLink   = errors.New("previous block hash does not match parent")
	ErrHashUnsolved = errors.New("block hash does not meet difficulty")
	ErrHashMismatch = errors.New("block hash does not match block content")
)

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64  `json:"index"`         // Position of the block in the chain, genesis is 0.
	PrevBlockHash string  `json:"previous_hash"` // Hash of the previous block in the chain.
	TimeStamp     float64 `json:"timestamp"`     // Seconds since epoch, captured once when the block is created.
	Nonce         uint64  `json:"nonce"`         // Value identified to solve the hash solution.
	Hash          string  `json:"hash"`          // Hash of the block content including the nonce.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader `json:"header"`
	Trans  []Tx        `json:"transactions"`
}

// CreateBlock constructs a block that has not gone through proof of work. The
// hash is computed for a nonce of zero.
func CreateBlock(number uint64, prevBlockHash string, trans []Tx) Block {
	return CreateBlockAt(number, prevBlockHash, trans, time.Now())
}

// CreateBlockAt constructs a block like CreateBlock using the specified time
// as the block timestamp.
func CreateBlockAt(number uint64, prevBlockHash string, trans []Tx, now time.Time) Block {
	ts := toTimeStamp(now)
	trans = copyTrans(trans)

	return Block{
		Header: BlockHeader{
			Number:        number,
			PrevBlockHash: prevBlockHash,
			TimeStamp:     ts,
			Nonce:         0,
			Hash:          CalculateHash(number, prevBlockHash, ts, trans, 0),
		},
		Trans: trans,
	}
}

// CalculateHash returns the hash for the specified block content.
func CalculateHash(number uint64, prevBlockHash string, timeStamp float64, trans []Tx, nonce uint64) string {
	return signature.Hash(blockString(number, prevBlockHash, timeStamp, trans, nonce))
}

// ComputeHash recomputes the hash from the block's stored content. For a
// block that has not been tampered with this equals Header.Hash.
func (b Block) ComputeHash() string {
	return CalculateHash(b.Header.Number, b.Header.PrevBlockHash, b.Header.TimeStamp, b.Trans, b.Header.Nonce)
}

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if uint(len(hash)) < difficulty {
		return false
	}

	for i := uint(0); i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// ValidateBlock takes a block and validates it against its parent. The
// checks run in order: the link to the parent, the difficulty of the hash,
// then the hash against the block content.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint) error {
	if b.Header.PrevBlockHash != previousBlock.Header.Hash {
		return fmt.Errorf("blk[%d]: %w, got %s, exp %s", b.Header.Number, ErrBrokenLink, b.Header.PrevBlockHash, previousBlock.Header.Hash)
	}

	if !IsHashSolved(difficulty, b.Header.Hash) {
		return fmt.Errorf("blk[%d]: %w, hash %s, difficulty %d", b.Header.Number, ErrHashUnsolved, b.Header.Hash, difficulty)
	}

	if hash := b.ComputeHash(); hash != b.Header.Hash {
		return fmt.Errorf("blk[%d]: %w, got %s, exp %s", b.Header.Number, ErrHashMismatch, b.Header.Hash, hash)
	}

	return nil
}

// Copy returns a block that shares no memory with b.
func (b Block) Copy() Block {
	b.Trans = copyTrans(b.Trans)
	return b
}

// =============================================================================

// toTimeStamp converts the time to fractional seconds since epoch at
// microsecond resolution.
func toTimeStamp(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// Package signature provides helper functions for handling the blockchain
// hashing and signature slot needs.
package signature

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/minio/sha256-simd"
)

// HashLength is the number of hex characters in a hash produced by Hash.
const HashLength = 2 * sha256.Size

// =============================================================================

// Hash returns the lowercase hex encoded sha256 digest of the data with
// no 0x prefix.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// EncodeSlot returns the textual form of a transaction signature slot as it
// appears in the canonical block encoding. An empty slot is rendered as a
// JSON null.
func EncodeSlot(sig hexutil.Bytes) string {
	if len(sig) == 0 {
		return "null"
	}

	return `"` + hexutil.Encode(sig) + `"`
}

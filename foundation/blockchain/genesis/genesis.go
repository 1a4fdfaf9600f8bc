// Package genesis maintains access to the genesis information.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Values used when no genesis file is provided.
const (
	DefaultDifficulty = 2
	DefaultRecipient  = "Alice"
	DefaultAmount     = 100
)

// Genesis represents the genesis information.
type Genesis struct {
	Difficulty uint   `json:"difficulty"` // How difficult it needs to be to solve the work problem.
	Recipient  string `json:"recipient"`  // Account that receives the genesis mint.
	Amount     uint64 `json:"amount"`     // Value minted into the genesis block.
}

// Default returns the genesis used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Difficulty: DefaultDifficulty,
		Recipient:  DefaultRecipient,
		Amount:     DefaultAmount,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis: %w", err)
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if genesis.Recipient == "" {
		return Genesis{}, fmt.Errorf("genesis recipient must not be empty")
	}

	return genesis, nil
}

// Package scenario provides support for scripting a series of transfers and
// block seals and replaying them against a chain.
package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/minichain/ledger/foundation/blockchain/chain"
	"github.com/minichain/ledger/foundation/blockchain/database"
	"github.com/minichain/ledger/foundation/validate"
)

// Set of actions a step can perform.
const (
	ActionTransfer = "transfer"
	ActionSeal     = "seal"
)

// Step represents a single action taken against the chain.
type Step struct {
	Action    string `json:"action" validate:"required,oneof=transfer seal"`
	Sender    string `json:"sender" validate:"required_if=Action transfer"`
	Recipient string `json:"recipient" validate:"required_if=Action transfer"`
	Amount    int64  `json:"amount" validate:"gte=0"`
}

// Scenario represents a named series of steps.
type Scenario struct {
	Name  string `json:"name" validate:"required"`
	Steps []Step `json:"steps" validate:"required,dive"`
}

// Default returns the demonstration scenario: three rounds of transfers, each
// sealed into its own block.
func Default() Scenario {
	return Scenario{
		Name: "demo",
		Steps: []Step{
			{Action: ActionTransfer, Sender: "Alice", Recipient: "Bob", Amount: 50},
			{Action: ActionSeal},
			{Action: ActionTransfer, Sender: "Bob", Recipient: "Charlie", Amount: 30},
			{Action: ActionTransfer, Sender: "Bob", Recipient: "Johny", Amount: 10},
			{Action: ActionSeal},
			{Action: ActionTransfer, Sender: "Charlie", Recipient: "Alice", Amount: 50},
			{Action: ActionSeal},
		},
	}
}

// Load opens and consumes a scenario file and validates its content.
func Load(path string) (Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario: %w", err)
	}

	return Decode(content)
}

// Decode consumes scenario JSON and validates its content.
func Decode(content []byte) (Scenario, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("decoding scenario: %w", err)
	}

	if err := validate.Check(sc); err != nil {
		return Scenario{}, fmt.Errorf("validating scenario: %w", err)
	}

	return sc, nil
}

// Accounts returns every account named in the scenario in sorted order.
func (sc Scenario) Accounts() []database.AccountID {
	seen := make(map[database.AccountID]struct{})
	for _, step := range sc.Steps {
		if step.Action != ActionTransfer {
			continue
		}
		seen[database.AccountID(step.Sender)] = struct{}{}
		seen[database.AccountID(step.Recipient)] = struct{}{}
	}

	accounts := make([]database.AccountID, 0, len(seen))
	for account := range seen {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	return accounts
}

// =============================================================================

// Rejection records a transfer the chain refused.
type Rejection struct {
	Step int
	Err  error
}

// Result is the outcome of replaying a scenario.
type Result struct {
	Accepted   int
	Rejected   []Rejection
	Sealed     []database.Block
	ChainValid bool
}

// Run replays the scenario against the chain. Transfers refused for an
// insufficient balance are recorded and the replay continues. Any other
// failure stops the replay.
func Run(ctx context.Context, c *chain.Chain, sc Scenario) (Result, error) {
	var res Result

	for i, step := range sc.Steps {
		switch step.Action {
		case ActionTransfer:
			if step.Amount < 0 {
				return res, fmt.Errorf("step %d: negative amount %d", i, step.Amount)
			}

			err := c.AddTransaction(database.AccountID(step.Sender), database.AccountID(step.Recipient), uint64(step.Amount))
			switch {
			case errors.Is(err, chain.ErrInsufficientBalance):
				res.Rejected = append(res.Rejected, Rejection{Step: i, Err: err})
			case err != nil:
				return res, fmt.Errorf("step %d: %w", i, err)
			default:
				res.Accepted++
			}

		case ActionSeal:
			block, err := c.AddBlock(ctx)
			if err != nil {
				return res, fmt.Errorf("step %d: sealing block: %w", i, err)
			}
			res.Sealed = append(res.Sealed, block)

		default:
			return res, fmt.Errorf("step %d: unknown action %q", i, step.Action)
		}
	}

	res.ChainValid = c.IsChainValid()

	return res, nil
}

// Package display renders chain state as terminal tables.
package display

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/minichain/ledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
)

// ChainData builds the table rows for the specified blocks, one row per
// block with its transactions joined in order.
func ChainData(blocks []database.Block) pterm.TableData {
	data := pterm.TableData{
		{"Block", "Timestamp", "Nonce", "Previous Hash", "Hash", "Transactions"},
	}

	for _, block := range blocks {
		var trans string
		for i, tx := range block.Trans {
			if i > 0 {
				trans += "\n"
			}
			trans += tx.String()
		}

		data = append(data, []string{
			strconv.FormatUint(block.Header.Number, 10),
			strconv.FormatFloat(block.Header.TimeStamp, 'f', 6, 64),
			strconv.FormatUint(block.Header.Nonce, 10),
			block.Header.PrevBlockHash,
			block.Header.Hash,
			trans,
		})
	}

	return data
}

// BalanceData builds the table rows for the specified balances. When accounts
// is empty every account in the map is listed in sorted order.
func BalanceData(balances map[database.AccountID]int64, accounts []database.AccountID) pterm.TableData {
	if len(accounts) == 0 {
		for account := range balances {
			accounts = append(accounts, account)
		}
		sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })
	}

	data := pterm.TableData{
		{"Account", "Balance"},
	}
	for _, account := range accounts {
		data = append(data, []string{string(account), strconv.FormatInt(balances[account], 10)})
	}

	return data
}

// =============================================================================

// Chain returns the rendered chain table.
func Chain(blocks []database.Block) (string, error) {
	return render(ChainData(blocks))
}

// Balances returns the rendered balance table.
func Balances(balances map[database.AccountID]int64, accounts []database.AccountID) (string, error) {
	return render(BalanceData(balances, accounts))
}

// Validity returns a one line summary of the chain validity check.
func Validity(valid bool) string {
	if valid {
		return pterm.Success.Sprint("Is blockchain valid? true")
	}
	return pterm.Error.Sprint("Is blockchain valid? false")
}

// milestones are the event fragments Events prints when not printing all.
var milestones = []string{
	"MINING: started",
	"MINING: SOLVED",
	"MINING: CANCELLED",
	"MINING: EXHAUSTED",
	"Failed to add transaction",
}

// Events prints chain events received on ch until the channel is closed and
// returns how many were received. Only mining milestones and rejected
// transactions are printed unless all is set.
func Events(w io.Writer, ch <-chan string, all bool) int {
	var n int
	for s := range ch {
		n++
		if all || isMilestone(s) {
			fmt.Fprintln(w, pterm.Info.Sprint(s))
		}
	}
	return n
}

func isMilestone(s string) bool {
	for _, m := range milestones {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func render(data pterm.TableData) (string, error) {
	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderRowSeparator("-").
		WithBoxed().
		WithData(data).
		Srender()
}

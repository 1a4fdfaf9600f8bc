package balance_test

import (
	"testing"
	"time"

	"github.com/minichain/ledger/foundation/blockchain/balance"
	"github.com/minichain/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestSheet(t *testing.T) {
	type table struct {
		name   string
		blocks [][]database.Tx
		final  map[database.AccountID]int64
	}

	tt := []table{
		{
			name: "basic",
			blocks: [][]database.Tx{
				{database.NewMintTx("Alice", 100)},
				{database.NewTx("Alice", "Bob", 40)},
			},
			final: map[database.AccountID]int64{
				database.SystemAccount: -100,
				"Alice":                60,
				"Bob":                  40,
			},
		},
		{
			name: "self-transfer",
			blocks: [][]database.Tx{
				{database.NewMintTx("Alice", 100)},
				{database.NewTx("Alice", "Alice", 30)},
				{database.NewTx("Alice", "Carol", 10)},
			},
			final: map[database.AccountID]int64{
				database.SystemAccount: -100,
				"Alice":                90,
				"Carol":                10,
			},
		},
		{
			name:   "empty-blocks",
			blocks: [][]database.Tx{nil, {}},
			final:  map[database.AccountID]int64{},
		},
	}

	t.Log("Given the need to keep balances from blocks of transactions.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a set of blocks.", testID)
				{
					var blocks []database.Block
					for i, trans := range tst.blocks {
						blocks = append(blocks, database.CreateBlockAt(uint64(i), "0", trans, time.Unix(1700000000, 0)))
					}

					sheet := balance.NewSheet(blocks)

					accounts := sheet.Copy()
					if len(accounts) != len(tst.final) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d accounts, got %d.", failed, testID, len(tst.final), len(accounts))
					}
					t.Logf("\t%s\tTest %d:\tShould have %d accounts.", success, testID, len(tst.final))

					for account, exp := range tst.final {
						if got := sheet.Balance(account); got != exp {
							t.Errorf("\t%s\tTest %d:\tShould have correct balance for %s.", failed, testID, account)
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, got)
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, exp)
						} else {
							t.Logf("\t%s\tTest %d:\tShould have correct balance for %s.", success, testID, account)
						}
					}

					if got := sheet.Balance("Nobody"); got != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould have a zero balance for an unknown account, got %d.", failed, testID, got)
					}
					t.Logf("\t%s\tTest %d:\tShould have a zero balance for an unknown account.", success, testID)

					accounts["Alice"] = -1
					if sheet.Balance("Alice") == -1 {
						t.Fatalf("\t%s\tTest %d:\tShould return a copy from Copy.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould return a copy from Copy.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

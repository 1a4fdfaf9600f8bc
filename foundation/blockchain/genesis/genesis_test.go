package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minichain/ledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestLoad(t *testing.T) {
	type table struct {
		name    string
		content string
		exp     genesis.Genesis
		fail    bool
	}

	tt := []table{
		{
			name:    "full",
			content: `{"difficulty": 3, "recipient": "Carol", "amount": 500}`,
			exp:     genesis.Genesis{Difficulty: 3, Recipient: "Carol", Amount: 500},
		},
		{
			name:    "partial",
			content: `{"amount": 250}`,
			exp:     genesis.Genesis{Difficulty: genesis.DefaultDifficulty, Recipient: "Alice", Amount: 250},
		},
		{
			name:    "empty-recipient",
			content: `{"recipient": ""}`,
			fail:    true,
		},
		{
			name:    "bad-json",
			content: `{"difficulty": "hard"}`,
			fail:    true,
		},
	}

	t.Log("Given the need to load genesis information from a file.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen loading a %s genesis file.", testID, tst.name)
				{
					path := filepath.Join(t.TempDir(), "genesis.json")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if tst.fail {
						if err == nil {
							t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

					if gen != tst.exp {
						t.Fatalf("\t%s\tTest %d:\tShould get %+v, got %+v.", failed, testID, tst.exp, gen)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected genesis.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestDefault(t *testing.T) {
	t.Log("Given the need for a genesis when no file is provided.")
	{
		t.Logf("\tTest 0:\tWhen asking for the default genesis.")
		{
			gen := genesis.Default()

			if gen.Difficulty != 2 || gen.Difficulty != genesis.DefaultDifficulty {
				t.Fatalf("\t%s\tTest 0:\tShould have difficulty 2, got %d.", failed, gen.Difficulty)
			}
			t.Logf("\t%s\tTest 0:\tShould have difficulty 2.", success)

			if gen.Recipient != "Alice" || gen.Amount != 100 {
				t.Fatalf("\t%s\tTest 0:\tShould mint 100 to Alice, got %d to %s.", failed, gen.Amount, gen.Recipient)
			}
			t.Logf("\t%s\tTest 0:\tShould mint 100 to Alice.", success)
		}
	}
}

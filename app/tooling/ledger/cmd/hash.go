package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/minichain/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	hashIndex     uint64
	hashPrev      string
	hashTimeStamp float64
	hashNonce     uint64
	hashTrans     []string
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Print the hash of a block from its fields.",
	Args:  cobra.NoArgs,
	RunE:  hashRun,
}

func init() {
	rootCmd.AddCommand(hashCmd)
	hashCmd.Flags().Uint64VarP(&hashIndex, "index", "i", 0, "Block index.")
	hashCmd.Flags().StringVarP(&hashPrev, "prev", "p", database.GenesisPrevBlockHash, "Previous block hash.")
	hashCmd.Flags().Float64VarP(&hashTimeStamp, "timestamp", "t", 0, "Block timestamp in seconds since the epoch.")
	hashCmd.Flags().Uint64VarP(&hashNonce, "nonce", "n", 0, "Block nonce.")
	hashCmd.Flags().StringArrayVarP(&hashTrans, "tx", "x", nil, "Transaction as sender:recipient:amount, repeatable.")
}

func hashRun(cmd *cobra.Command, args []string) error {
	trans := make([]database.Tx, 0, len(hashTrans))
	for _, s := range hashTrans {
		tx, err := parseTx(s)
		if err != nil {
			return err
		}
		trans = append(trans, tx)
	}

	hash := database.CalculateHash(hashIndex, hashPrev, hashTimeStamp, trans, hashNonce)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, hash)
	if difficulty != 0 {
		fmt.Fprintf(out, "solved at difficulty %d: %t\n", difficulty, database.IsHashSolved(difficulty, hash))
	}

	return nil
}

// parseTx converts sender:recipient:amount into a transaction.
func parseTx(s string) (database.Tx, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return database.Tx{}, fmt.Errorf("tx %q: expected sender:recipient:amount", s)
	}

	amount, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return database.Tx{}, fmt.Errorf("tx %q: amount: %w", s, err)
	}

	return database.NewTx(database.AccountID(parts[0]), database.AccountID(parts[1]), amount), nil
}

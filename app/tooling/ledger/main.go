// This program runs ledger scenarios and hashing utilities from the command line.
package main

import "github.com/minichain/ledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}

package cmd

import (
	"github.com/minichain/ledger/business/core/scenario"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay the built-in demonstration scenario.",
	Args:  cobra.NoArgs,
	RunE:  demoRun,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func demoRun(cmd *cobra.Command, args []string) error {
	return runScenario(cmd, scenario.Default())
}

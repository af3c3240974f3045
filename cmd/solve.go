package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/palletfit/internal/orchestrator"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find the minimum number of pallets for the configured instance",
	Long: `Builds the pallet model for the configured item count, slot count and size
limit, solves it exactly and prints the allocation of items to pallets.

Exits non-zero when the instance is infeasible, the solver is unavailable,
or the time limit is reached.`,
	Example: `  palletfit solve -n 100 -k 10 -s 20
  palletfit solve --backend exec --solver-path /opt/scip/bin/scip -o json`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	orch := orchestrator.New(cfg, logger)
	orch.Writer = cmd.OutOrStdout()
	orch.ConfigFile = viper.ConfigFileUsed()
	_, err := orch.Solve(ctx)
	return err
}

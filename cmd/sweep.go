package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/palletfit/internal/orchestrator"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Solve the instance for a range of slot counts and rank the results",
	Long: `Solves the configured instance once per slot count and ranks the outcomes
by pallets used, then unused capacity. Infeasible slot counts are listed
after the solved ones.

Without --slot-counts, slot counts 1 through --max-slots are tried
(default: the configured slot count).`,
	Example: `  palletfit sweep -n 20 -s 6 --max-slots 8
  palletfit sweep --slot-counts 2,4,8 -o markdown`,
	RunE: runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.IntSlice("slot-counts", nil, "explicit slot counts to solve")
	f.Int("max-slots", 0, "sweep slot counts 1..max-slots")
	f.Int("parallelism", 0, "concurrent solves (default: number of CPUs)")

	_ = viper.BindPFlag("sweep.max_slots", f.Lookup("max-slots"))
	_ = viper.BindPFlag("sweep.parallelism", f.Lookup("parallelism"))
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	slotCounts, _ := cmd.Flags().GetIntSlice("slot-counts")

	orch := orchestrator.New(cfg, logger)
	orch.Writer = cmd.OutOrStdout()
	orch.ConfigFile = viper.ConfigFileUsed()
	_, err := orch.Sweep(ctx, slotCounts)
	return err
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/guimove/palletfit/internal/orchestrator"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Write the pallet model in LP format without solving it",
	Long: `Writes the mixed-integer model for the configured instance in CPLEX LP
format, as handed to the exec backend. Useful for solving with another
engine or inspecting the formulation.`,
	RunE: runModel,
}

func init() {
	modelCmd.Flags().String("out", "", "write to file instead of stdout")
	rootCmd.AddCommand(modelCmd)
}

func runModel(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating model file: %w", err)
		}
		defer f.Close()
		w = f
	}

	orch := orchestrator.New(cfg, logger)
	return orch.WriteModel(w)
}

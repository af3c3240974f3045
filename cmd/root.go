package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/guimove/palletfit/internal/config"
	"github.com/guimove/palletfit/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = zap.NewNop()
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "palletfit",
	Short: "Minimum-pallet planner for identical items",
	Long: `PalletFit assigns a batch of identical items to pallet slots so that the
fewest pallets are used while every loaded pallet stays within a shared
capacity.

The problem is solved exactly as a mixed-integer model, either in process
or by an external SCIP executable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		return setupLogger()
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	def := config.Default()
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&cfgFile, "config", "", "config file (default: palletfit.yaml)")
	pf.BoolVar(&verbose, "verbose", false, "log at debug level")

	// Instance
	pf.Float64("sku-area", def.Inventory.SKUArea, "footprint area of one item")
	pf.Float64("sku-height", def.Inventory.SKUHeight, "height of one item")
	pf.IntP("items", "n", def.Inventory.ItemCount, "number of items to place")
	pf.IntP("slots", "k", def.Pallets.SlotCount, "number of pallet slots available")
	pf.IntP("size-limit", "s", def.Pallets.SizeLimit, "upper bound on pallet capacity")
	pf.String("linking", def.Model.Linking, "capacity linking form: gated or literal")
	pf.Bool("slack-tiebreak", def.Model.SlackTieBreak, "prefer the least unused capacity among minimum-pallet plans")

	// Solver
	pf.String("backend", def.Solver.Backend, "solver backend: auto, bnb, or exec")
	pf.String("solver-path", def.Solver.Executable, "SCIP executable used by the exec backend")
	pf.Duration("timeout", def.Solver.Timeout, "per-solve time limit")
	pf.Int("node-limit", def.Solver.NodeLimit, "branch-and-bound node limit (0 = backend default)")

	// Output
	pf.StringP("output", "o", def.Output.Format, "output format: table, json, yaml, markdown")
	pf.String("log-level", def.Log.Level, "log level: debug, info, warn, error")
	pf.Bool("metrics", def.Metrics.Enabled, "print solver metrics after the report")
	pf.String("cache-dir", def.Cache.Dir, "reuse plans cached in this directory")

	for key, flag := range map[string]string{
		"inventory.sku_area":   "sku-area",
		"inventory.sku_height": "sku-height",
		"inventory.item_count": "items",
		"pallets.slot_count":   "slots",
		"pallets.size_limit":   "size-limit",
		"model.linking":        "linking",
		"model.slack_tiebreak": "slack-tiebreak",
		"solver.backend":       "backend",
		"solver.executable":    "solver-path",
		"solver.timeout":       "timeout",
		"solver.node_limit":    "node-limit",
		"output.format":        "output",
		"log.level":            "log-level",
		"metrics.enabled":      "metrics",
		"cache.dir":            "cache-dir",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("palletfit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.palletfit")
	}

	// Every key needs a default for AutomaticEnv to reach it through
	// Unmarshal. PALLETFIT_SOLVER_BACKEND overrides solver.backend, and so on.
	setDefaults(viper.GetViper(), cfg)
	viper.SetEnvPrefix("PALLETFIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	return cfg.Validate()
}

// setDefaults registers every config key with its default value.
func setDefaults(v *viper.Viper, def config.Config) {
	for key, value := range map[string]any{
		"inventory.sku_area":          def.Inventory.SKUArea,
		"inventory.sku_height":        def.Inventory.SKUHeight,
		"inventory.item_count":        def.Inventory.ItemCount,
		"pallets.slot_count":          def.Pallets.SlotCount,
		"pallets.size_limit":          def.Pallets.SizeLimit,
		"model.linking":               def.Model.Linking,
		"model.slack_tiebreak":        def.Model.SlackTieBreak,
		"solver.backend":              def.Solver.Backend,
		"solver.executable":           def.Solver.Executable,
		"solver.args":                 def.Solver.Args,
		"solver.work_dir":             def.Solver.WorkDir,
		"solver.timeout":              def.Solver.Timeout,
		"solver.node_limit":           def.Solver.NodeLimit,
		"solver.tolerance":            def.Solver.Tolerance,
		"solver.auto_max_assignments": def.Solver.AutoMaxAssignments,
		"sweep.max_slots":             def.Sweep.MaxSlots,
		"sweep.parallelism":           def.Sweep.Parallelism,
		"output.format":               def.Output.Format,
		"log.level":                   def.Log.Level,
		"metrics.enabled":             def.Metrics.Enabled,
		"cache.dir":                   def.Cache.Dir,
		"cache.ttl":                   def.Cache.TTL,
	} {
		v.SetDefault(key, value)
	}
}

func setupLogger() error {
	l, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger = l
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config file", zap.String("path", used))
	}
	return nil
}

// signalContext is cancelled on interrupt so running solves stop cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

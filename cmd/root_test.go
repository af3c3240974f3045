package cmd

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper gives each test a fresh viper and no config file.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfgFile = ""
	verbose = false
}

func TestLoadConfig_EnvOverridesEveryKey(t *testing.T) {
	resetViper(t)
	t.Setenv("PALLETFIT_SOLVER_TOLERANCE", "0.001")
	t.Setenv("PALLETFIT_SOLVER_ARGS", "-q,-f")
	t.Setenv("PALLETFIT_SOLVER_AUTO_MAX_ASSIGNMENTS", "50")
	t.Setenv("PALLETFIT_CACHE_TTL", "1h")
	t.Setenv("PALLETFIT_CACHE_DIR", "/tmp/palletfit-cache")
	t.Setenv("PALLETFIT_INVENTORY_ITEM_COUNT", "12")

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Solver.Tolerance != 0.001 {
		t.Errorf("tolerance = %v, want 0.001", cfg.Solver.Tolerance)
	}
	if len(cfg.Solver.Args) != 2 || cfg.Solver.Args[0] != "-q" || cfg.Solver.Args[1] != "-f" {
		t.Errorf("args = %q, want [-q -f]", cfg.Solver.Args)
	}
	if cfg.Solver.AutoMaxAssignments != 50 {
		t.Errorf("auto_max_assignments = %d, want 50", cfg.Solver.AutoMaxAssignments)
	}
	if cfg.Cache.TTL != time.Hour || cfg.Cache.Dir != "/tmp/palletfit-cache" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Inventory.ItemCount != 12 {
		t.Errorf("item_count = %d, want 12", cfg.Inventory.ItemCount)
	}
}

func TestLoadConfig_DefaultsWithoutOverrides(t *testing.T) {
	resetViper(t)

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Solver.Backend != "auto" || cfg.Solver.Timeout != 5*time.Minute || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_InvalidEnvRejected(t *testing.T) {
	resetViper(t)
	t.Setenv("PALLETFIT_SOLVER_TOLERANCE", "0.9")

	if err := loadConfig(); err == nil {
		t.Error("expected validation error for tolerance 0.9")
	}
}

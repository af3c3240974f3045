package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/guimove/palletfit/internal/model"
)

// Config is the top-level configuration for palletfit.
type Config struct {
	Inventory InventoryConfig `yaml:"inventory" mapstructure:"inventory"`
	Pallets   PalletsConfig   `yaml:"pallets" mapstructure:"pallets"`
	Model     ModelConfig     `yaml:"model" mapstructure:"model"`
	Solver    SolverConfig    `yaml:"solver" mapstructure:"solver"`
	Sweep     SweepConfig     `yaml:"sweep" mapstructure:"sweep"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
}

type InventoryConfig struct {
	SKUArea   float64 `yaml:"sku_area" mapstructure:"sku_area"`
	SKUHeight float64 `yaml:"sku_height" mapstructure:"sku_height"`
	ItemCount int     `yaml:"item_count" mapstructure:"item_count"`
}

type PalletsConfig struct {
	SlotCount int `yaml:"slot_count" mapstructure:"slot_count"`
	SizeLimit int `yaml:"size_limit" mapstructure:"size_limit"`
}

type ModelConfig struct {
	Linking       string `yaml:"linking" mapstructure:"linking"`
	SlackTieBreak bool   `yaml:"slack_tiebreak" mapstructure:"slack_tiebreak"`
}

type SolverConfig struct {
	Backend    string        `yaml:"backend" mapstructure:"backend"`       // auto, bnb or exec
	Executable string        `yaml:"executable" mapstructure:"executable"` // used by exec
	Args       []string      `yaml:"args" mapstructure:"args"`             // empty = SCIP batch arguments
	WorkDir    string        `yaml:"work_dir" mapstructure:"work_dir"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	NodeLimit  int           `yaml:"node_limit" mapstructure:"node_limit"`
	Tolerance  float64       `yaml:"tolerance" mapstructure:"tolerance"`

	// AutoMaxAssignments is the largest items*slots product that "auto"
	// still hands to the in-process backend.
	AutoMaxAssignments int `yaml:"auto_max_assignments" mapstructure:"auto_max_assignments"`
}

type SweepConfig struct {
	MaxSlots    int `yaml:"max_slots" mapstructure:"max_slots"`
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// CacheConfig enables the on-disk solution cache when Dir is set.
type CacheConfig struct {
	Dir string        `yaml:"dir" mapstructure:"dir"`
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"` // 0 = never expire
}

// Backends accepted by solver.backend.
const (
	BackendAuto = "auto"
	BackendBnB  = "bnb"
	BackendExec = "exec"
)

// Default returns a Config with sensible defaults.
func Default() Config {
	p := model.DefaultParameters()
	return Config{
		Inventory: InventoryConfig{
			SKUArea:   p.SKUArea,
			SKUHeight: p.SKUHeight,
			ItemCount: p.ItemCount,
		},
		Pallets: PalletsConfig{
			SlotCount: p.SlotCount,
			SizeLimit: p.SizeLimit,
		},
		Model: ModelConfig{
			Linking: string(model.LinkGated),
		},
		Solver: SolverConfig{
			Backend:            BackendAuto,
			Executable:         "scip",
			Timeout:            5 * time.Minute,
			Tolerance:          1e-6,
			AutoMaxAssignments: 200,
		},
		Sweep: SweepConfig{
			Parallelism: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Format: "table",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// Parameters returns the model parameters described by the config.
func (c *Config) Parameters() model.Parameters {
	return model.Parameters{
		SKUArea:       c.Inventory.SKUArea,
		SKUHeight:     c.Inventory.SKUHeight,
		ItemCount:     c.Inventory.ItemCount,
		SlotCount:     c.Pallets.SlotCount,
		SizeLimit:     c.Pallets.SizeLimit,
		Linking:       model.Linking(c.Model.Linking),
		SlackTieBreak: c.Model.SlackTieBreak,
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if err := c.Parameters().Validate(); err != nil {
		return err
	}
	validBackends := map[string]bool{BackendAuto: true, BackendBnB: true, BackendExec: true}
	if !validBackends[c.Solver.Backend] {
		return fmt.Errorf("solver backend must be auto, bnb, or exec, got %q", c.Solver.Backend)
	}
	if c.Solver.Backend == BackendExec && c.Solver.Executable == "" {
		return fmt.Errorf("solver executable is required for the exec backend")
	}
	if c.Solver.Timeout < 0 {
		return fmt.Errorf("solver timeout must be non-negative, got %v", c.Solver.Timeout)
	}
	if c.Solver.NodeLimit < 0 {
		return fmt.Errorf("node_limit must be non-negative, got %d", c.Solver.NodeLimit)
	}
	if c.Solver.Tolerance <= 0 || c.Solver.Tolerance >= 0.5 {
		return fmt.Errorf("tolerance must be in (0, 0.5), got %v", c.Solver.Tolerance)
	}
	if c.Sweep.MaxSlots < 0 {
		return fmt.Errorf("sweep max_slots must be non-negative, got %d", c.Sweep.MaxSlots)
	}
	validFormats := map[string]bool{"table": true, "json": true, "yaml": true, "markdown": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, yaml, or markdown, got %q", c.Output.Format)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be non-negative, got %v", c.Cache.TTL)
	}
	if c.Sweep.Parallelism <= 0 {
		c.Sweep.Parallelism = runtime.NumCPU()
	}
	return nil
}

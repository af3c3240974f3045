package model

import (
	"time"
)

// Slot is one candidate pallet position.
type Slot struct {
	Index  int   `json:"index" yaml:"index"`
	Active bool  `json:"active" yaml:"active"`
	Items  []int `json:"items" yaml:"items"`
}

// Utilization summarizes how full the active pallets are.
type Utilization struct {
	AverageFill         float64         `json:"average_fill" yaml:"average_fill"` // 0.0 - 1.0
	MinFill             float64         `json:"min_fill" yaml:"min_fill"`
	UnderfilledFraction float64         `json:"underfilled_fraction" yaml:"underfilled_fraction"` // share of pallets below 50% fill
	PerSlot             map[int]float64 `json:"per_slot,omitempty" yaml:"per_slot,omitempty"`     // slot index -> fill ratio
}

// Solution is the validated outcome of one plan.
type Solution struct {
	Parameters Parameters `json:"parameters" yaml:"parameters"`

	Capacity     int           `json:"capacity" yaml:"capacity"`
	ActiveCount  int           `json:"active_count" yaml:"active_count"`
	ItemsPerSlot int           `json:"items_per_slot" yaml:"items_per_slot"`
	Allocation   map[int][]int `json:"allocation" yaml:"allocation"` // slot -> ascending item indices
	ActiveSlots  []int         `json:"active_slots" yaml:"active_slots"`
	Slack        float64       `json:"slack" yaml:"slack"`
	Utilization  Utilization   `json:"utilization" yaml:"utilization"`
	Objective    float64       `json:"objective" yaml:"objective"`

	Backend       string        `json:"backend,omitempty" yaml:"backend,omitempty"`
	Nodes         int           `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	SolveDuration time.Duration `json:"solve_duration" yaml:"solve_duration"`
}

// Slots expands the allocation into one Slot per candidate position.
func (s *Solution) Slots() []Slot {
	active := make(map[int]bool, len(s.ActiveSlots))
	for _, k := range s.ActiveSlots {
		active[k] = true
	}
	slots := make([]Slot, s.Parameters.SlotCount)
	for k := range slots {
		slots[k] = Slot{Index: k, Active: active[k], Items: s.Allocation[k]}
	}
	return slots
}

// UsedVolume returns the volume stored in slot k.
func (s *Solution) UsedVolume(k int) float64 {
	return float64(len(s.Allocation[k])) * s.Parameters.UnitVolume()
}

// SweepStatus classifies one sweep candidate.
type SweepStatus string

const (
	SweepOptimal    SweepStatus = "optimal"
	SweepInfeasible SweepStatus = "infeasible"
	SweepFailed     SweepStatus = "failed"
)

// SweepEntry is the outcome for one candidate slot count.
type SweepEntry struct {
	Rank      int           `json:"rank" yaml:"rank"`
	SlotCount int           `json:"slot_count" yaml:"slot_count"`
	Status    SweepStatus   `json:"status" yaml:"status"`
	Solution  *Solution     `json:"solution,omitempty" yaml:"solution,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// SweepResult collects every candidate of a sweep, best first.
type SweepResult struct {
	Parameters Parameters    `json:"parameters" yaml:"parameters"`
	Entries    []SweepEntry  `json:"entries" yaml:"entries"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Best returns the top-ranked feasible entry.
func (r *SweepResult) Best() (SweepEntry, bool) {
	for _, e := range r.Entries {
		if e.Status == SweepOptimal {
			return e, true
		}
	}
	return SweepEntry{}, false
}

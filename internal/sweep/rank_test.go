package sweep

import (
	"testing"

	"github.com/guimove/palletfit/internal/model"
)

func solved(k, pallets int, slack float64) model.SweepEntry {
	return model.SweepEntry{
		SlotCount: k,
		Status:    model.SweepOptimal,
		Solution:  &model.Solution{ActiveCount: pallets, Slack: slack},
	}
}

func TestRank_FewestPalletsWins(t *testing.T) {
	entries := []model.SweepEntry{
		{SlotCount: 1, Status: model.SweepInfeasible},
		solved(2, 2, 4),
		solved(3, 2, 1),
		{SlotCount: 5, Status: model.SweepFailed},
		solved(4, 2, 1),
		solved(6, 1, 9),
	}

	ranked := Rank(entries)

	wantOrder := []int{6, 3, 4, 2, 1, 5}
	for i, k := range wantOrder {
		if ranked[i].SlotCount != k {
			t.Errorf("position %d: got k=%d, want k=%d", i, ranked[i].SlotCount, k)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("position %d: got rank %d", i, ranked[i].Rank)
		}
	}
	if entries[0].Rank != 0 {
		t.Error("Rank must not modify its input")
	}
}

func TestNonIncreasing(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.SweepEntry
		want    bool
	}{
		{"decreasing", []model.SweepEntry{solved(3, 2, 0), solved(1, 4, 0), solved(2, 3, 0)}, true},
		{"infeasible prefix", []model.SweepEntry{{SlotCount: 1, Status: model.SweepInfeasible}, solved(2, 2, 0)}, true},
		{"grows", []model.SweepEntry{solved(2, 2, 0), solved(3, 3, 0)}, false},
		{"infeasible after feasible", []model.SweepEntry{solved(2, 2, 0), {SlotCount: 3, Status: model.SweepInfeasible}}, false},
		{"failed skipped", []model.SweepEntry{solved(2, 2, 0), {SlotCount: 3, Status: model.SweepFailed}, solved(4, 2, 0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NonIncreasing(tt.entries); got != tt.want {
				t.Errorf("NonIncreasing() = %v, want %v", got, tt.want)
			}
		})
	}
}

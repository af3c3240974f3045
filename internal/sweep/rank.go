package sweep

import (
	"sort"

	"github.com/guimove/palletfit/internal/model"
)

var statusOrder = map[model.SweepStatus]int{
	model.SweepOptimal:    0,
	model.SweepInfeasible: 1,
	model.SweepFailed:     2,
}

// Rank orders entries best first and assigns ranks. Solved candidates come
// first by fewest pallets, then least slack, then fewest slots; infeasible
// and failed candidates follow by slot count.
func Rank(entries []model.SweepEntry) []model.SweepEntry {
	ranked := make([]model.SweepEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if statusOrder[a.Status] != statusOrder[b.Status] {
			return statusOrder[a.Status] < statusOrder[b.Status]
		}
		if a.Status == model.SweepOptimal {
			if a.Solution.ActiveCount != b.Solution.ActiveCount {
				return a.Solution.ActiveCount < b.Solution.ActiveCount
			}
			if a.Solution.Slack != b.Solution.Slack {
				return a.Solution.Slack < b.Solution.Slack
			}
		}
		return a.SlotCount < b.SlotCount
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// NonIncreasing reports whether the pallet count never grows as the slot
// count grows. Infeasible candidates count as needing infinitely many
// pallets; failed ones are skipped.
func NonIncreasing(entries []model.SweepEntry) bool {
	bySlots := make([]model.SweepEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status != model.SweepFailed {
			bySlots = append(bySlots, e)
		}
	}
	sort.Slice(bySlots, func(i, j int) bool { return bySlots[i].SlotCount < bySlots[j].SlotCount })

	prev := -1 // -1 = unbounded so far
	for _, e := range bySlots {
		if e.Status == model.SweepInfeasible {
			if prev >= 0 {
				return false
			}
			continue
		}
		if prev >= 0 && e.Solution.ActiveCount > prev {
			return false
		}
		prev = e.Solution.ActiveCount
	}
	return true
}

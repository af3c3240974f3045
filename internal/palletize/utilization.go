package palletize

import "github.com/guimove/palletfit/internal/model"

// underfilled is the fill ratio below which a pallet counts as underfilled.
const underfilled = 0.5

// Utilization computes the fill ratio of every active slot of sol.
func Utilization(sol *model.Solution) model.Utilization {
	u := model.Utilization{PerSlot: make(map[int]float64, len(sol.ActiveSlots))}
	if len(sol.ActiveSlots) == 0 {
		return u
	}

	var total float64
	var low int
	u.MinFill = 1
	for _, k := range sol.ActiveSlots {
		fill := 0.0
		if sol.Capacity > 0 {
			fill = sol.UsedVolume(k) / float64(sol.Capacity)
		}
		u.PerSlot[k] = fill
		total += fill
		if fill < u.MinFill {
			u.MinFill = fill
		}
		if fill < underfilled {
			low++
		}
	}

	n := float64(len(sol.ActiveSlots))
	u.AverageFill = total / n
	u.UnderfilledFraction = float64(low) / n
	return u
}

package palletize

import (
	"fmt"

	"github.com/guimove/palletfit/internal/mip"
	"github.com/guimove/palletfit/internal/model"
)

// PalletCost is the objective weight of one active pallet.
const PalletCost = 50.0

// addCapacityLinks bounds the volume a slot may hold by the shared capacity.
func addCapacityLinks(f *Formulation) {
	v := f.Params.UnitVolume()
	for k, active := range f.Active {
		var e mip.Expr
		switch f.Params.Linking {
		case model.LinkLiteral:
			// v*items_per_slot - active*capacity <= 0
			e.AddLinear(v, f.ItemsPerSlot).AddProduct(-1, active, f.Capacity)
		default:
			// v*active*items_per_slot - capacity <= 0
			e.AddProduct(v, active, f.ItemsPerSlot).AddLinear(-1, f.Capacity)
		}
		f.Problem.AddConstraint(fmt.Sprintf("link_%d", k), e, mip.LessEqual, 0)
	}
}

// addMembershipCaps limits the items in a slot to items_per_slot while the
// slot is active and to zero otherwise.
func addMembershipCaps(f *Formulation) {
	for k, active := range f.Active {
		var e mip.Expr
		for i := range f.Assign {
			e.AddLinear(1, f.Assign[i][k])
		}
		e.AddProduct(-1, active, f.ItemsPerSlot)
		f.Problem.AddConstraint(fmt.Sprintf("members_%d", k), e, mip.LessEqual, 0)
	}
}

// addSingleAssignment places every item in exactly one slot. With no slots
// the row is empty and unsatisfiable.
func addSingleAssignment(f *Formulation) {
	for i, row := range f.Assign {
		f.Problem.AddConstraint(fmt.Sprintf("place_%d", i), mip.Sum(row...), mip.Equal, 1)
	}
}

func addUsage(f *Formulation) {
	e := mip.Sum(f.Active...)
	e.AddLinear(-1, f.ActiveCount)
	f.Problem.AddConstraint("usage", e, mip.Equal, 0)
}

// addSlackDefinition ties slack to the unused volume across active slots:
// active_count*capacity - v*N = slack.
func addSlackDefinition(f *Formulation) {
	var e mip.Expr
	e.AddProduct(1, f.ActiveCount, f.Capacity).AddLinear(-1, f.Slack)
	f.Problem.AddConstraint("slack_def", e, mip.Equal, f.Params.TotalVolume())
}

func setObjective(f *Formulation) {
	var e mip.Expr
	for _, active := range f.Active {
		e.AddLinear(PalletCost, active)
	}
	if f.Params.SlackTieBreak {
		e.AddLinear(SlackWeight(f.Params), f.Slack)
	}
	f.Problem.Minimize(e)
}

// SlackWeight is the tie-break weight on slack. Slack never exceeds
// K*S_max, so the term stays below the cost of one pallet.
func SlackWeight(p model.Parameters) float64 {
	return PalletCost / float64(p.SlotCount*p.SizeLimit+1)
}

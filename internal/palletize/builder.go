// Package palletize builds the pallet sizing model, hands it to a solver and
// turns the raw variable values back into a validated allocation.
package palletize

import (
	"fmt"
	"math"

	"github.com/guimove/palletfit/internal/mip"
	"github.com/guimove/palletfit/internal/model"
)

// Variable names shared with LP files and solver results.
const (
	VarCapacity     = "capacity"
	VarActiveCount  = "active_count"
	VarItemsPerSlot = "items_per_slot"
	VarSlack        = "slack"
)

// ActiveName returns the name of the activity flag of slot k.
func ActiveName(k int) string { return fmt.Sprintf("active_%d", k) }

// AssignName returns the name of the flag placing item i in slot k.
func AssignName(i, k int) string { return fmt.Sprintf("assign_%d_%d", i, k) }

// Formulation is a built problem together with handles to its variables.
type Formulation struct {
	Problem *mip.Problem
	Params  model.Parameters

	Capacity     mip.VarID
	ActiveCount  mip.VarID
	ItemsPerSlot mip.VarID
	Slack        mip.VarID
	Active       []mip.VarID   // [slot]
	Assign       [][]mip.VarID // [item][slot]
}

// Build declares the decision variables for params, emits every constraint
// family and sets the objective.
func Build(params model.Parameters) (*Formulation, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if params.Linking == "" {
		params.Linking = model.LinkGated
	}

	n, k := params.ItemCount, params.SlotCount
	p := mip.NewProblem(fmt.Sprintf("palletize_n%d_k%d", n, k))
	f := &Formulation{
		Problem: p,
		Params:  params,
		Active:  make([]mip.VarID, k),
		Assign:  make([][]mip.VarID, n),
	}

	f.Capacity = p.AddVar(VarCapacity, mip.Integer, 0, float64(params.SizeLimit))
	for s := 0; s < k; s++ {
		f.Active[s] = p.AddVar(ActiveName(s), mip.Binary, 0, 1)
	}
	for _, it := range params.Items() {
		row := make([]mip.VarID, k)
		for s := 0; s < k; s++ {
			row[s] = p.AddVar(AssignName(it.Index, s), mip.Binary, 0, 1)
		}
		f.Assign[it.Index] = row
	}
	f.ActiveCount = p.AddVar(VarActiveCount, mip.Integer, 0, float64(k))
	f.ItemsPerSlot = p.AddVar(VarItemsPerSlot, mip.Integer, 0, math.Inf(1))
	f.Slack = p.AddVar(VarSlack, mip.Continuous, 0, math.Inf(1))

	addCapacityLinks(f)
	addMembershipCaps(f)
	addSingleAssignment(f)
	addUsage(f)
	addSlackDefinition(f)
	setObjective(f)
	return f, nil
}

package palletize

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/guimove/palletfit/internal/model"
)

// DefaultTolerance is the distance from an integer within which solver
// output is rounded.
const DefaultTolerance = 1e-6

// unitVolume is area times height computed in decimal, so 0.1 by 3 is
// exactly 0.3 rather than the float product 0.30000000000000004.
func unitVolume(p model.Parameters) decimal.Decimal {
	return decimal.NewFromFloat(p.SKUArea).Mul(decimal.NewFromFloat(p.SKUHeight))
}

// Extract turns raw variable values into a validated Solution. It rounds
// integer variables within tol, checks every invariant of the model on the
// rounded values and never mutates its inputs.
func Extract(f *Formulation, values map[string]float64, tol float64) (*model.Solution, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	p := f.Problem
	raw, err := p.ValuesFromMap(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailure, err)
	}

	rounded := make([]float64, len(raw))
	for _, v := range p.Vars() {
		x := raw[v.ID]
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %s = %v", ErrValidationFailure, v.Name, x)
		}
		if v.IsInteger() {
			r := math.Round(x)
			if math.Abs(x-r) > tol {
				return nil, fmt.Errorf("%w: %s = %v is not within %g of an integer", ErrValidationFailure, v.Name, x, tol)
			}
			x = r
		}
		if x < v.Lower-tol || x > v.Upper+tol {
			return nil, fmt.Errorf("%w: %s = %v outside [%v, %v]", ErrValidationFailure, v.Name, x, v.Lower, v.Upper)
		}
		rounded[v.ID] = x
	}

	params := f.Params
	sol := &model.Solution{
		Parameters:   params,
		Capacity:     int(rounded[f.Capacity]),
		ItemsPerSlot: int(rounded[f.ItemsPerSlot]),
		Allocation:   make(map[int][]int),
		ActiveSlots:  []int{},
		Objective:    p.Objective().Eval(rounded),
	}

	flags := 0
	for k, id := range f.Active {
		if rounded[id] == 1 {
			sol.ActiveSlots = append(sol.ActiveSlots, k)
			flags++
		}
	}
	if got := int(rounded[f.ActiveCount]); got != flags {
		return nil, fmt.Errorf("%w: active_count = %d but %d slots are flagged active", ErrValidationFailure, got, flags)
	}

	for i, row := range f.Assign {
		slot := -1
		for k, id := range row {
			if rounded[id] != 1 {
				continue
			}
			if slot >= 0 {
				return nil, fmt.Errorf("%w: item %d assigned to slots %d and %d", ErrValidationFailure, i, slot, k)
			}
			slot = k
		}
		if slot < 0 {
			return nil, fmt.Errorf("%w: item %d is not assigned", ErrValidationFailure, i)
		}
		if rounded[f.Active[slot]] != 1 {
			return nil, fmt.Errorf("%w: item %d placed in inactive slot %d", ErrValidationFailure, i, slot)
		}
		sol.Allocation[slot] = append(sol.Allocation[slot], i)
	}
	sol.ActiveCount = len(sol.Allocation)

	v := unitVolume(params)
	capacity := decimal.NewFromInt(int64(sol.Capacity))
	for k, items := range sol.Allocation {
		used := v.Mul(decimal.NewFromInt(int64(len(items))))
		if used.GreaterThan(capacity) {
			return nil, fmt.Errorf("%w: slot %d holds volume %s over capacity %d", ErrValidationFailure, k, used, sol.Capacity)
		}
	}

	slack := capacity.Mul(decimal.NewFromInt(int64(flags))).Sub(v.Mul(decimal.NewFromInt(int64(params.ItemCount))))
	if slack.IsNegative() {
		return nil, fmt.Errorf("%w: active capacity %s is below inventory volume", ErrValidationFailure,
			capacity.Mul(decimal.NewFromInt(int64(flags))))
	}
	sol.Slack = slack.InexactFloat64()
	if d := math.Abs(raw[f.Slack] - sol.Slack); d > tol*math.Max(1, sol.Slack) {
		return nil, fmt.Errorf("%w: slack = %v, expected %v", ErrValidationFailure, raw[f.Slack], sol.Slack)
	}

	if violated := p.Violations(rounded, tol*math.Max(1, float64(params.SizeLimit))); len(violated) > 0 {
		return nil, fmt.Errorf("%w: violated constraints %v", ErrValidationFailure, violated)
	}

	sol.Utilization = Utilization(sol)
	return sol, nil
}

package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/guimove/palletfit/internal/mip"
)

const (
	integralityTol  = 1e-6
	feasibilityTol  = 1e-6
	pruneTol        = 1e-9
	defaultMaxNodes = 1_000_000
)

// BranchAndBound is an in-process solver for small mixed-integer programs
// with bilinear terms. It branches on integer variables that appear in
// bilinear terms until every product has a fixed factor, then solves LP
// relaxations and branches on fractional integers.
type BranchAndBound struct {
	// NodeLimit caps explored nodes when no per-solve limit is given.
	NodeLimit int
}

// NewBranchAndBound creates an in-process solver.
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{NodeLimit: defaultMaxNodes}
}

// Name returns "bnb".
func (s *BranchAndBound) Name() string { return "bnb" }

type incumbent struct {
	values    []float64
	objective float64
}

// Solve runs a depth-first branch-and-bound over p.
func (s *BranchAndBound) Solve(ctx context.Context, p *mip.Problem, opts ...Option) (*Result, error) {
	start := time.Now()
	o := applyOptions(opts)
	limit := o.NodeLimit
	if limit <= 0 {
		limit = s.NodeLimit
	}

	vars := p.Vars()
	for _, v := range vars {
		if math.IsInf(v.Lower, -1) {
			return nil, fmt.Errorf("%w: variable %s has no finite lower bound", ErrSolverUnavailable, v.Name)
		}
	}

	var best *incumbent
	if o.Hint != nil {
		if values, err := p.ValuesFromMap(o.Hint); err == nil && len(p.Violations(values, feasibilityTol)) == 0 {
			best = &incumbent{values: values, objective: p.Objective().Eval(values)}
		}
	}

	stack := []box{rootBox(p)}
	nodes := 0
	exhausted := true

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if nodes >= limit {
			exhausted = false
			break
		}
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		if !propagate(p, vars, b) {
			continue
		}
		if best != nil && b.exprMin(p.Objective()) >= best.objective-pruneTol {
			continue
		}

		if id, ok, err := couplingVar(p, b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
		} else if ok {
			stack = append(stack, split(b, id)...)
			continue
		}

		values, err := solveRelaxation(p, b)
		switch {
		case errors.Is(err, errRelaxInfeasible):
			continue
		case errors.Is(err, errRelaxUnbounded):
			return &Result{Status: StatusUnbounded, Nodes: nodes, Duration: time.Since(start)}, nil
		case err != nil:
			return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
		}

		obj := p.Objective().Eval(values)
		if best != nil && obj >= best.objective-pruneTol {
			continue
		}

		if id := mostFractional(vars, b, values); id != mip.NoVar {
			stack = append(stack, branchAt(b, id, values[id])...)
			continue
		}

		for i, v := range vars {
			if v.IsInteger() {
				values[i] = math.Round(values[i])
			}
		}
		if len(p.Violations(values, feasibilityTol)) > 0 {
			continue
		}
		best = &incumbent{values: values, objective: p.Objective().Eval(values)}
	}

	res := &Result{Nodes: nodes, Duration: time.Since(start)}
	switch {
	case !exhausted:
		// An unproven incumbent is not reported.
		res.Status = StatusError
		res.Message = fmt.Sprintf("node limit %d reached before the search completed", limit)
	case best != nil:
		res.Status = StatusOptimal
		res.Values = p.ValuesToMap(best.values)
		res.Objective = best.objective
	default:
		res.Status = StatusInfeasible
	}
	return res, nil
}

// couplingVar picks the integer variable to fix next so that bilinear
// terms become linear: the one with a finite domain appearing in the most
// products whose factors are both free.
func couplingVar(p *mip.Problem, b box) (mip.VarID, bool, error) {
	count := make(map[mip.VarID]int)
	var blocked bool
	visit := func(e mip.Expr) {
		for _, t := range e.Terms {
			if !t.Bilinear() || b.fixed(t.A) || b.fixed(t.B) {
				continue
			}
			count[t.A]++
			count[t.B]++
			blocked = true
		}
	}
	for _, c := range p.Constraints() {
		visit(c.Expr)
	}
	visit(p.Objective())
	if !blocked {
		return mip.NoVar, false, nil
	}

	best := mip.NoVar
	for id, n := range count {
		v := p.Var(id)
		if !v.IsInteger() || math.IsInf(b.upper[id], 1) {
			continue
		}
		if best == mip.NoVar || n > count[best] ||
			(n == count[best] && width(b, id) < width(b, best)) ||
			(n == count[best] && width(b, id) == width(b, best) && id < best) {
			best = id
		}
	}
	if best == mip.NoVar {
		return mip.NoVar, false, errors.New("bilinear term has no bounded integer factor to branch on")
	}
	return best, true, nil
}

func width(b box, id mip.VarID) float64 {
	return b.upper[id] - b.lower[id]
}

// split halves the integer domain of id. The lower half is returned last
// so it is explored first.
func split(b box, id mip.VarID) []box {
	mid := math.Floor((b.lower[id] + b.upper[id]) / 2)
	lo, hi := b.clone(), b.clone()
	lo.upper[id] = mid
	hi.lower[id] = mid + 1
	return []box{hi, lo}
}

// branchAt creates the floor/ceil children around a fractional value.
func branchAt(b box, id mip.VarID, x float64) []box {
	down, up := b.clone(), b.clone()
	down.upper[id] = math.Floor(x)
	up.lower[id] = math.Ceil(x)
	return []box{up, down}
}

func mostFractional(vars []mip.Var, b box, values []float64) mip.VarID {
	best := mip.NoVar
	bestFrac := integralityTol
	for i, v := range vars {
		if !v.IsInteger() || b.fixed(v.ID) {
			continue
		}
		frac := math.Abs(values[i] - math.Round(values[i]))
		if frac > bestFrac {
			best = mip.VarID(i)
			bestFrac = frac
		}
	}
	return best
}

package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/guimove/palletfit/internal/mip"
)

const simplexTol = 1e-10

var (
	errRelaxInfeasible = errors.New("relaxation infeasible")
	errRelaxUnbounded  = errors.New("relaxation unbounded")
)

// relaxation is the LP obtained once every bilinear term in a node has at
// least one fixed factor. Free variables are shifted to x = lower + x'.
type relaxation struct {
	cols  []mip.VarID      // structural column -> variable
	index map[mip.VarID]int // variable -> structural column
	rows  [][]float64
	rhs   []float64
	cost  []float64
}

// linearize folds e into coefficients over the node's free variables plus
// a constant, substituting fixed variables.
func linearize(b box, e mip.Expr) (map[mip.VarID]float64, float64, error) {
	coefs := make(map[mip.VarID]float64)
	constant := e.Constant
	for _, t := range e.Terms {
		if !t.Bilinear() {
			if b.fixed(t.A) {
				constant += t.Coef * b.lower[t.A]
				continue
			}
			coefs[t.A] += t.Coef
			continue
		}
		fa, fb := b.fixed(t.A), b.fixed(t.B)
		switch {
		case fa && fb:
			constant += t.Coef * b.lower[t.A] * b.lower[t.B]
		case fa:
			coefs[t.B] += t.Coef * b.lower[t.A]
		case fb:
			coefs[t.A] += t.Coef * b.lower[t.B]
		default:
			return nil, 0, fmt.Errorf("bilinear term on free variables %d and %d", t.A, t.B)
		}
	}
	return coefs, constant, nil
}

// buildRelaxation assembles the standard-form LP for the node. Each row
// gets its own slack column so A always has full row rank.
func buildRelaxation(p *mip.Problem, b box) (*relaxation, error) {
	r := &relaxation{index: make(map[mip.VarID]int)}

	type row struct {
		coefs map[mip.VarID]float64
		rhs   float64
	}
	var rows []row
	used := make(map[mip.VarID]bool)

	addRow := func(coefs map[mip.VarID]float64, rhs float64) error {
		nonzero := false
		for id, c := range coefs {
			if c != 0 {
				nonzero = true
				used[id] = true
			}
		}
		if !nonzero {
			if rhs < -1e-7 {
				return errRelaxInfeasible
			}
			return nil
		}
		rows = append(rows, row{coefs: coefs, rhs: rhs})
		return nil
	}

	for _, c := range p.Constraints() {
		coefs, constant, err := linearize(b, c.Expr)
		if err != nil {
			return nil, err
		}
		// Shift free variables by their lower bound.
		rhs := c.RHS - constant
		for id, coef := range coefs {
			rhs -= coef * b.lower[id]
		}
		neg := make(map[mip.VarID]float64, len(coefs))
		for id, coef := range coefs {
			neg[id] = -coef
		}
		switch c.Sense {
		case mip.LessEqual:
			err = addRow(coefs, rhs)
		case mip.GreaterEqual:
			err = addRow(neg, -rhs)
		case mip.Equal:
			if err = addRow(coefs, rhs); err == nil {
				err = addRow(neg, -rhs)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	objCoefs, _, err := linearize(b, p.Objective())
	if err != nil {
		return nil, err
	}

	for id := range b.lower {
		vid := mip.VarID(id)
		if b.fixed(vid) {
			continue
		}
		if !math.IsInf(b.upper[id], 1) {
			if err := addRow(map[mip.VarID]float64{vid: 1}, b.upper[id]-b.lower[id]); err != nil {
				return nil, err
			}
			continue
		}
		if !used[vid] {
			// An unbounded column in no row sits at its lower bound
			// unless the objective pulls it upward.
			if objCoefs[vid] < 0 {
				return nil, errRelaxUnbounded
			}
		}
	}

	for id := range b.lower {
		vid := mip.VarID(id)
		if used[vid] {
			r.index[vid] = len(r.cols)
			r.cols = append(r.cols, vid)
		}
	}

	r.rows = make([][]float64, len(rows))
	r.rhs = make([]float64, len(rows))
	for i, rw := range rows {
		dense := make([]float64, len(r.cols))
		for id, c := range rw.coefs {
			if j, ok := r.index[id]; ok {
				dense[j] = c
			}
		}
		r.rows[i] = dense
		r.rhs[i] = rw.rhs
	}
	r.cost = make([]float64, len(r.cols))
	for j, id := range r.cols {
		r.cost[j] = objCoefs[id]
	}
	return r, nil
}

// solveRelaxation returns the optimal point of the node's LP relaxation as
// a full value vector.
func solveRelaxation(p *mip.Problem, b box) ([]float64, error) {
	r, err := buildRelaxation(p, b)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(b.lower))
	copy(values, b.lower)
	if len(r.rows) == 0 {
		// Only unconstrained columns remain; lower bounds are optimal.
		return values, nil
	}

	m, n := len(r.rows), len(r.cols)
	a := mat.NewDense(m, n+m, nil)
	c := make([]float64, n+m)
	copy(c, r.cost)
	for i, rw := range r.rows {
		for j, v := range rw {
			a.Set(i, j, v)
		}
		a.Set(i, n+i, 1)
	}

	_, x, err := lp.Simplex(c, a, r.rhs, simplexTol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return nil, errRelaxInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return nil, errRelaxUnbounded
	case err != nil:
		return nil, fmt.Errorf("simplex: %w", err)
	}

	for j, id := range r.cols {
		values[id] = b.lower[id] + x[j]
	}
	return values, nil
}

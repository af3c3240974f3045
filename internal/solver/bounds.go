package solver

import (
	"math"

	"github.com/guimove/palletfit/internal/mip"
)

const (
	boundTol      = 1e-9
	maxPropPasses = 100
)

// box holds the current bounds of every variable in a search node.
type box struct {
	lower []float64
	upper []float64
}

func rootBox(p *mip.Problem) box {
	vars := p.Vars()
	b := box{
		lower: make([]float64, len(vars)),
		upper: make([]float64, len(vars)),
	}
	for i, v := range vars {
		b.lower[i] = v.Lower
		b.upper[i] = v.Upper
	}
	return b
}

func (b box) clone() box {
	c := box{
		lower: make([]float64, len(b.lower)),
		upper: make([]float64, len(b.upper)),
	}
	copy(c.lower, b.lower)
	copy(c.upper, b.upper)
	return c
}

func (b box) fixed(id mip.VarID) bool {
	return b.upper[id]-b.lower[id] <= boundTol
}

// interval returns the range of t over the box.
func (b box) interval(t mip.Term) (lo, hi float64) {
	if t.Coef == 0 {
		return 0, 0
	}
	if !t.Bilinear() {
		lo, hi = t.Coef*b.lower[t.A], t.Coef*b.upper[t.A]
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi
	}
	ax, bx := b.lower[t.A], b.upper[t.A]
	ay, by := b.lower[t.B], b.upper[t.B]
	products := [4]float64{mul(ax, ay), mul(ax, by), mul(bx, ay), mul(bx, by)}
	lo, hi = products[0], products[0]
	for _, v := range products[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo, hi = t.Coef*lo, t.Coef*hi
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// mul treats 0*Inf as 0, which is the bound of a product whose factor is
// exactly zero.
func mul(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a * b
}

// exprMin returns the lower bound of e over the box.
func (b box) exprMin(e mip.Expr) float64 {
	sum := e.Constant
	for _, t := range e.Terms {
		lo, _ := b.interval(t)
		sum += lo
	}
	return sum
}

// propagate tightens the box against every constraint until a fixpoint.
// It returns false when the box is proven empty.
func propagate(p *mip.Problem, vars []mip.Var, b box) bool {
	if !roundIntegers(vars, b) {
		return false
	}
	for pass := 0; pass < maxPropPasses; pass++ {
		changed := false
		for _, c := range p.Constraints() {
			var ok, ch bool
			switch c.Sense {
			case mip.LessEqual:
				ok, ch = tightenLE(b, c.Expr.Terms, c.RHS-c.Expr.Constant, 1)
			case mip.GreaterEqual:
				ok, ch = tightenLE(b, c.Expr.Terms, -(c.RHS - c.Expr.Constant), -1)
			case mip.Equal:
				rhs := c.RHS - c.Expr.Constant
				var ch2 bool
				ok, ch = tightenLE(b, c.Expr.Terms, rhs, 1)
				if ok {
					ok, ch2 = tightenLE(b, c.Expr.Terms, -rhs, -1)
					ch = ch || ch2
				}
			}
			if !ok {
				return false
			}
			changed = changed || ch
		}
		if !roundIntegers(vars, b) {
			return false
		}
		if !changed {
			break
		}
	}
	return true
}

func roundIntegers(vars []mip.Var, b box) bool {
	for i, v := range vars {
		if v.IsInteger() {
			b.lower[i] = math.Ceil(b.lower[i] - boundTol)
			b.upper[i] = math.Floor(b.upper[i] + boundTol)
		}
		if b.lower[i] > b.upper[i]+boundTol {
			return false
		}
		if b.upper[i] < b.lower[i] {
			b.upper[i] = b.lower[i]
		}
	}
	return true
}

// tightenLE applies sign*Σterms <= rhs.
func tightenLE(b box, terms []mip.Term, rhs, sign float64) (ok, changed bool) {
	los := make([]float64, len(terms))
	finite := 0.0
	infinite := 0
	for i, t := range terms {
		t.Coef *= sign
		lo, _ := b.interval(t)
		los[i] = lo
		if math.IsInf(lo, -1) {
			infinite++
			continue
		}
		finite += lo
	}
	if infinite == 0 && finite > rhs+1e-7 {
		return false, false
	}

	for i, t := range terms {
		t.Coef *= sign
		var residual float64
		switch {
		case infinite == 0:
			residual = rhs - (finite - los[i])
		case infinite == 1 && math.IsInf(los[i], -1):
			residual = rhs - finite
		default:
			continue
		}
		if tightenTerm(b, t, residual) {
			changed = true
		}
	}
	return true, changed
}

// tightenTerm narrows the bounds of the variables in t so that t <= r.
func tightenTerm(b box, t mip.Term, r float64) bool {
	if t.Coef == 0 {
		return false
	}
	if !t.Bilinear() {
		return tightenLinear(b, t.A, t.Coef, r)
	}
	switch {
	case b.fixed(t.B):
		return tightenLinear(b, t.A, t.Coef*b.lower[t.B], r)
	case b.fixed(t.A):
		return tightenLinear(b, t.B, t.Coef*b.lower[t.A], r)
	}
	if b.lower[t.A] < 0 || b.lower[t.B] < 0 {
		return false
	}

	changed := false
	if t.Coef > 0 && r >= 0 {
		// x*y <= r/c
		bound := r / t.Coef
		if b.lower[t.B] > 0 {
			changed = setUpper(b, t.A, bound/b.lower[t.B]) || changed
		}
		if b.lower[t.A] > 0 {
			changed = setUpper(b, t.B, bound/b.lower[t.A]) || changed
		}
	}
	if t.Coef < 0 && r < 0 {
		// x*y >= r/c > 0
		bound := r / t.Coef
		if ub := b.upper[t.B]; ub > 0 && !math.IsInf(ub, 1) {
			changed = setLower(b, t.A, bound/ub) || changed
		}
		if ua := b.upper[t.A]; ua > 0 && !math.IsInf(ua, 1) {
			changed = setLower(b, t.B, bound/ua) || changed
		}
	}
	return changed
}

func tightenLinear(b box, id mip.VarID, coef, r float64) bool {
	switch {
	case coef > 0:
		return setUpper(b, id, r/coef)
	case coef < 0:
		return setLower(b, id, r/coef)
	}
	return false
}

func setUpper(b box, id mip.VarID, u float64) bool {
	if u < b.upper[id]-boundTol {
		b.upper[id] = u
		return true
	}
	return false
}

func setLower(b box, id mip.VarID, l float64) bool {
	if l > b.lower[id]+boundTol {
		b.lower[id] = l
		return true
	}
	return false
}

package mip

// Term is Coef*x_A when B is NoVar, Coef*x_A*x_B otherwise.
type Term struct {
	Coef float64
	A    VarID
	B    VarID
}

// Bilinear reports whether the term is a product of two variables.
func (t Term) Bilinear() bool {
	return t.B != NoVar
}

// Eval returns the term's value under values.
func (t Term) Eval(values []float64) float64 {
	if t.Bilinear() {
		return t.Coef * values[t.A] * values[t.B]
	}
	return t.Coef * values[t.A]
}

// Expr is a sum of terms plus a constant.
type Expr struct {
	Terms    []Term
	Constant float64
}

// AddLinear appends coef*v.
func (e *Expr) AddLinear(coef float64, v VarID) *Expr {
	e.Terms = append(e.Terms, Term{Coef: coef, A: v, B: NoVar})
	return e
}

// AddProduct appends coef*a*b.
func (e *Expr) AddProduct(coef float64, a, b VarID) *Expr {
	e.Terms = append(e.Terms, Term{Coef: coef, A: a, B: b})
	return e
}

// AddConstant adds c to the constant part.
func (e *Expr) AddConstant(c float64) *Expr {
	e.Constant += c
	return e
}

// Eval returns the expression's value under values.
func (e Expr) Eval(values []float64) float64 {
	sum := e.Constant
	for _, t := range e.Terms {
		sum += t.Eval(values)
	}
	return sum
}

// Linear reports whether no term is bilinear.
func (e Expr) Linear() bool {
	for _, t := range e.Terms {
		if t.Bilinear() {
			return false
		}
	}
	return true
}

// Sum returns the expression 1*v for every v.
func Sum(vars ...VarID) Expr {
	var e Expr
	for _, v := range vars {
		e.AddLinear(1, v)
	}
	return e
}

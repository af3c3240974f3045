// Package mip holds a solver-neutral representation of a mixed-integer
// program whose constraints may contain bilinear terms.
package mip

import (
	"fmt"
	"math"
	"sort"
)

// VarKind is the domain of a decision variable.
type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "continuous"
	}
}

// VarID indexes a variable within its Problem.
type VarID int

// NoVar marks the unused second factor of a linear Term.
const NoVar VarID = -1

// Var is a decision variable with box bounds. Upper may be +Inf.
type Var struct {
	ID    VarID
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

// IsInteger reports whether the variable must take an integral value.
func (v Var) IsInteger() bool {
	return v.Kind != Continuous
}

// Sense is the relation between a constraint expression and its right-hand side.
type Sense int

const (
	LessEqual Sense = iota
	Equal
	GreaterEqual
)

func (s Sense) String() string {
	switch s {
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	default:
		return "<="
	}
}

// Constraint is Expr <sense> RHS.
type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   float64
}

// Satisfied reports whether the constraint holds for values within tol.
func (c Constraint) Satisfied(values []float64, tol float64) bool {
	lhs := c.Expr.Eval(values)
	switch c.Sense {
	case Equal:
		return math.Abs(lhs-c.RHS) <= tol
	case GreaterEqual:
		return lhs >= c.RHS-tol
	default:
		return lhs <= c.RHS+tol
	}
}

// Problem is a minimization program over bounded variables.
type Problem struct {
	Name string

	vars        []Var
	byName      map[string]VarID
	constraints []Constraint
	objective   Expr
}

// NewProblem creates an empty problem.
func NewProblem(name string) *Problem {
	return &Problem{
		Name:   name,
		byName: make(map[string]VarID),
	}
}

// AddVar declares a variable and returns its ID. Binary variables are
// always bounded to [0, 1]. Declaring the same name twice panics.
func (p *Problem) AddVar(name string, kind VarKind, lower, upper float64) VarID {
	if _, dup := p.byName[name]; dup {
		panic(fmt.Sprintf("mip: duplicate variable %q", name))
	}
	if kind == Binary {
		lower, upper = 0, 1
	}
	id := VarID(len(p.vars))
	p.vars = append(p.vars, Var{ID: id, Name: name, Kind: kind, Lower: lower, Upper: upper})
	p.byName[name] = id
	return id
}

// AddConstraint appends expr <sense> rhs.
func (p *Problem) AddConstraint(name string, expr Expr, sense Sense, rhs float64) {
	p.constraints = append(p.constraints, Constraint{
		Name:  name,
		Expr:  expr,
		Sense: sense,
		RHS:   rhs,
	})
}

// Minimize sets the objective.
func (p *Problem) Minimize(expr Expr) {
	p.objective = expr
}

// Objective returns the minimized expression.
func (p *Problem) Objective() Expr {
	return p.objective
}

// NumVars returns the number of declared variables.
func (p *Problem) NumVars() int {
	return len(p.vars)
}

// Var returns the variable with the given ID.
func (p *Problem) Var(id VarID) Var {
	return p.vars[id]
}

// Vars returns a copy of all variables in declaration order.
func (p *Problem) Vars() []Var {
	out := make([]Var, len(p.vars))
	copy(out, p.vars)
	return out
}

// VarByName looks a variable up by name.
func (p *Problem) VarByName(name string) (Var, bool) {
	id, ok := p.byName[name]
	if !ok {
		return Var{}, false
	}
	return p.vars[id], true
}

// Constraints returns the constraints in insertion order.
func (p *Problem) Constraints() []Constraint {
	return p.constraints
}

// ValuesFromMap converts a name-keyed assignment into a dense vector.
// Every declared variable must be present.
func (p *Problem) ValuesFromMap(m map[string]float64) ([]float64, error) {
	values := make([]float64, len(p.vars))
	var missing []string
	for i, v := range p.vars {
		x, ok := m[v.Name]
		if !ok {
			missing = append(missing, v.Name)
			continue
		}
		values[i] = x
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		if len(missing) > 5 {
			return nil, fmt.Errorf("missing values for %d variables (%v, ...)", len(missing), missing[:5])
		}
		return nil, fmt.Errorf("missing values for variables %v", missing)
	}
	return values, nil
}

// ValuesToMap converts a dense vector into a name-keyed assignment.
func (p *Problem) ValuesToMap(values []float64) map[string]float64 {
	m := make(map[string]float64, len(p.vars))
	for i, v := range p.vars {
		m[v.Name] = values[i]
	}
	return m
}

// Violations lists every bound, integrality and constraint violation of
// values beyond tol. An empty result means values is feasible.
func (p *Problem) Violations(values []float64, tol float64) []string {
	var out []string
	for i, v := range p.vars {
		x := values[i]
		if x < v.Lower-tol || x > v.Upper+tol {
			out = append(out, fmt.Sprintf("%s=%g outside [%g, %g]", v.Name, x, v.Lower, v.Upper))
		}
		if v.IsInteger() && math.Abs(x-math.Round(x)) > tol {
			out = append(out, fmt.Sprintf("%s=%g not integral", v.Name, x))
		}
	}
	for _, c := range p.constraints {
		if !c.Satisfied(values, tol) {
			out = append(out, fmt.Sprintf("%s: %g %s %g", c.Name, c.Expr.Eval(values), c.Sense, c.RHS))
		}
	}
	return out
}

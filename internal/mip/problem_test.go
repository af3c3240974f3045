package mip

import (
	"math"
	"strings"
	"testing"
)

func smallProblem() (*Problem, VarID, VarID, VarID) {
	p := NewProblem("small")
	x := p.AddVar("x", Integer, 0, 10)
	y := p.AddVar("y", Binary, -5, 5)
	z := p.AddVar("z", Continuous, 0, math.Inf(1))

	var c1 Expr
	c1.AddLinear(1, x).AddProduct(-3, x, y)
	p.AddConstraint("c1", c1, LessEqual, 2)
	p.AddConstraint("c2", Sum(x, z), Equal, 7)

	var obj Expr
	obj.AddLinear(2, x).AddLinear(1, z)
	p.Minimize(obj)
	return p, x, y, z
}

func TestAddVar_BinaryBounds(t *testing.T) {
	p, _, y, _ := smallProblem()
	v := p.Var(y)
	if v.Lower != 0 || v.Upper != 1 {
		t.Errorf("binary bounds: got [%v, %v], want [0, 1]", v.Lower, v.Upper)
	}
	if !v.IsInteger() {
		t.Error("binary should be integer")
	}
}

func TestAddVar_DuplicatePanics(t *testing.T) {
	p := NewProblem("dup")
	p.AddVar("x", Integer, 0, 1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate name")
		}
	}()
	p.AddVar("x", Integer, 0, 1)
}

func TestVarByName(t *testing.T) {
	p, _, _, z := smallProblem()
	v, ok := p.VarByName("z")
	if !ok || v.ID != z {
		t.Fatalf("VarByName(z) = %+v, %v", v, ok)
	}
	if _, ok := p.VarByName("missing"); ok {
		t.Error("expected missing variable lookup to fail")
	}
}

func TestExpr_Eval(t *testing.T) {
	p, x, y, _ := smallProblem()
	values := make([]float64, p.NumVars())
	values[x] = 4
	values[y] = 1

	c1 := p.Constraints()[0]
	if got := c1.Expr.Eval(values); got != -8 {
		t.Errorf("Eval() = %v, want -8", got)
	}
	if c1.Expr.Linear() {
		t.Error("c1 has a bilinear term")
	}
}

func TestViolations(t *testing.T) {
	p, _, _, _ := smallProblem()

	feasible, err := p.ValuesFromMap(map[string]float64{"x": 2, "y": 0, "z": 5})
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Violations(feasible, 1e-9); len(v) != 0 {
		t.Errorf("expected feasible, got %v", v)
	}

	infeasible, _ := p.ValuesFromMap(map[string]float64{"x": 3.5, "y": 0, "z": 1})
	v := p.Violations(infeasible, 1e-9)
	if len(v) != 3 {
		t.Fatalf("expected 3 violations (integrality, c1, c2), got %v", v)
	}
}

func TestValuesFromMap_Missing(t *testing.T) {
	p, _, _, _ := smallProblem()
	_, err := p.ValuesFromMap(map[string]float64{"x": 1})
	if err == nil {
		t.Fatal("expected error for missing values")
	}
	if !strings.Contains(err.Error(), "y") || !strings.Contains(err.Error(), "z") {
		t.Errorf("error should name missing variables: %v", err)
	}
}

func TestValuesToMap_RoundTrip(t *testing.T) {
	p, _, _, _ := smallProblem()
	in := map[string]float64{"x": 1, "y": 1, "z": 6}
	values, err := p.ValuesFromMap(in)
	if err != nil {
		t.Fatal(err)
	}
	out := p.ValuesToMap(values)
	for k, want := range in {
		if out[k] != want {
			t.Errorf("%s: got %v, want %v", k, out[k], want)
		}
	}
}

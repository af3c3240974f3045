package mip

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteLP(t *testing.T) {
	p, _, _, _ := smallProblem()

	var buf bytes.Buffer
	if err := WriteLP(&buf, p); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"\\ Problem: small",
		"Minimize\n obj: + 2 x + 1 z",
		" c1: + 1 x + [ - 3 x * y ] <= 2",
		" c2: + 1 x + 1 z = 7",
		" 0 <= x <= 10",
		" z >= 0",
		"General\n x\n",
		"Binary\n y\n",
		"End\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("LP output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<= y <=") {
		t.Error("binary variables should not appear in Bounds")
	}
}

func TestWriteLP_EmptyConstraint(t *testing.T) {
	p := NewProblem("empty")
	p.AddVar("x", Integer, 0, 1)
	p.AddConstraint("never", Expr{}, Equal, 1)

	var buf bytes.Buffer
	if err := WriteLP(&buf, p); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), " never: 0 x = 1") {
		t.Errorf("empty constraint not written parseably:\n%s", buf.String())
	}
}

func TestWriteLP_ConstantMovesToRHS(t *testing.T) {
	p := NewProblem("const")
	x := p.AddVar("x", Continuous, 0, 4)
	var e Expr
	e.AddLinear(1, x).AddConstant(-3)
	p.AddConstraint("shift", e, LessEqual, 1)

	var buf bytes.Buffer
	if err := WriteLP(&buf, p); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), " shift: + 1 x <= 4") {
		t.Errorf("constant not folded into RHS:\n%s", buf.String())
	}
}

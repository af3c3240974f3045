package solver

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/palletfit/internal/mip"
)

// knapsack: pick items of weight 3, 4, 5 and value 4, 5, 6 under capacity 8.
func knapsack() *mip.Problem {
	p := mip.NewProblem("knapsack")
	x := []mip.VarID{
		p.AddVar("x0", mip.Binary, 0, 1),
		p.AddVar("x1", mip.Binary, 0, 1),
		p.AddVar("x2", mip.Binary, 0, 1),
	}
	var weight mip.Expr
	weight.AddLinear(3, x[0]).AddLinear(4, x[1]).AddLinear(5, x[2])
	p.AddConstraint("weight", weight, mip.LessEqual, 8)

	var obj mip.Expr
	obj.AddLinear(-4, x[0]).AddLinear(-5, x[1]).AddLinear(-6, x[2])
	p.Minimize(obj)
	return p
}

func TestBranchAndBound_Knapsack(t *testing.T) {
	res, err := NewBranchAndBound().Solve(context.Background(), knapsack())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)

	assert.InDelta(t, -10, res.Objective, 1e-9)
	assert.InDelta(t, 1, res.Values["x0"], 1e-9)
	assert.InDelta(t, 0, res.Values["x1"], 1e-9)
	assert.InDelta(t, 1, res.Values["x2"], 1e-9)
	assert.Positive(t, res.Nodes)
}

func TestBranchAndBound_Infeasible(t *testing.T) {
	p := mip.NewProblem("infeasible")
	a := p.AddVar("a", mip.Binary, 0, 1)
	b := p.AddVar("b", mip.Binary, 0, 1)
	p.AddConstraint("too_many", mip.Sum(a, b), mip.Equal, 3)
	p.Minimize(mip.Sum(a))

	res, err := NewBranchAndBound().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.Nil(t, res.Values)
}

func TestBranchAndBound_EmptySumEquality(t *testing.T) {
	p := mip.NewProblem("empty")
	p.AddVar("x", mip.Integer, 0, 5)
	p.AddConstraint("no_slot", mip.Expr{}, mip.Equal, 1)

	res, err := NewBranchAndBound().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
}

// Bilinear: choosing a=1 costs c >= p >= 3 but earns 5.
func TestBranchAndBound_Bilinear(t *testing.T) {
	p := mip.NewProblem("bilinear")
	a := p.AddVar("a", mip.Binary, 0, 1)
	n := p.AddVar("n", mip.Integer, 0, math.Inf(1))
	c := p.AddVar("c", mip.Integer, 0, 10)

	p.AddConstraint("demand", mip.Sum(n), mip.GreaterEqual, 3)
	var link mip.Expr
	link.AddProduct(1, a, n).AddLinear(-1, c)
	p.AddConstraint("link", link, mip.LessEqual, 0)

	var obj mip.Expr
	obj.AddLinear(1, c).AddLinear(-5, a)
	p.Minimize(obj)

	res, err := NewBranchAndBound().Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.InDelta(t, -2, res.Objective, 1e-9)
	assert.InDelta(t, 1, res.Values["a"], 1e-9)
	assert.InDelta(t, 3, res.Values["c"], 1e-9)
}

func TestBranchAndBound_Unbounded(t *testing.T) {
	p := mip.NewProblem("unbounded")
	x := p.AddVar("x", mip.Continuous, 0, math.Inf(1))
	p.AddConstraint("floor", mip.Sum(x), mip.GreaterEqual, 1)
	var obj mip.Expr
	obj.AddLinear(-1, x)
	p.Minimize(obj)

	res, err := NewBranchAndBound().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusUnbounded, res.Status)
}

func TestBranchAndBound_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBranchAndBound().Solve(ctx, knapsack())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBranchAndBound_NodeLimit(t *testing.T) {
	res, err := NewBranchAndBound().Solve(context.Background(), knapsack(), WithNodeLimit(1))
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "node limit")
}

func TestBranchAndBound_Hint(t *testing.T) {
	hint := map[string]float64{"x0": 0, "x1": 1, "x2": 0}
	res, err := NewBranchAndBound().Solve(context.Background(), knapsack(), WithHint(hint))
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.InDelta(t, -10, res.Objective, 1e-9)
}

func TestBranchAndBound_InfeasibleHintIgnored(t *testing.T) {
	hint := map[string]float64{"x0": 1, "x1": 1, "x2": 1}
	res, err := NewBranchAndBound().Solve(context.Background(), knapsack(), WithHint(hint))
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.InDelta(t, -10, res.Objective, 1e-9)
}

func TestBranchAndBound_FreeVariableRejected(t *testing.T) {
	p := mip.NewProblem("free")
	p.AddVar("x", mip.Continuous, math.Inf(-1), 1)

	_, err := NewBranchAndBound().Solve(context.Background(), p)
	assert.ErrorIs(t, err, ErrSolverUnavailable)
}

func TestPropagate_TightensBilinear(t *testing.T) {
	p := mip.NewProblem("prop")
	a := p.AddVar("a", mip.Binary, 0, 1)
	n := p.AddVar("n", mip.Integer, 0, math.Inf(1))
	var link mip.Expr
	link.AddProduct(2, a, n)
	p.AddConstraint("link", link, mip.LessEqual, 9)
	p.AddConstraint("on", mip.Sum(a), mip.Equal, 1)

	b := rootBox(p)
	require.True(t, propagate(p, p.Vars(), b))
	assert.Equal(t, 1.0, b.lower[a])
	assert.Equal(t, 4.0, b.upper[n], "2*n <= 9 rounds down to n <= 4")
}

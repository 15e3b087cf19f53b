package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEagerEvaluation(t *testing.T) {
	a := NewLeaf(2.0)
	b := NewLeaf(-3.0)

	assert.Equal(t, -1.0, a.Add(b).Data)
	assert.Equal(t, -6.0, a.Mul(b).Data)
	assert.Equal(t, 8.0, a.Pow(3).Data)
	assert.Equal(t, 0.0, b.Relu().Data)
	assert.Equal(t, 2.0, a.Relu().Data)
}

func TestDerivedOps(t *testing.T) {
	a := NewLeaf(6.0)
	b := NewLeaf(4.0)

	assert.Equal(t, -6.0, a.Neg().Data)
	assert.Equal(t, 2.0, a.Sub(b).Data)
	assert.Equal(t, 1.5, a.Div(b).Data)
	assert.Equal(t, 8.0, a.AddScalar(2).Data)
	assert.Equal(t, 12.0, a.MulScalar(2).Data)
	assert.Equal(t, 5.0, a.SubScalar(1).Data)
	assert.Equal(t, 3.0, a.DivScalar(2).Data)
}

func TestPowRejectsNonFiniteExponent(t *testing.T) {
	a := NewLeaf(2.0)

	assert.Panics(t, func() { a.Pow(math.NaN()) })
	assert.Panics(t, func() { a.Pow(math.Inf(1)) })
}

// TestTopoOrder checks the topological order law on a DAG with a shared
// node: every operand appears before its parent, and no node twice.
func TestTopoOrder(t *testing.T) {
	x := NewLeaf(3.0)
	sq := x.Mul(x) // shared subexpression
	y := sq.Add(x)
	z := y.Mul(sq)
	topo := z.Topo()

	position := make(map[*Node]int, len(topo))
	for i, n := range topo {
		_, seen := position[n]
		require.False(t, seen, "node appears twice in topological order")
		position[n] = i
	}

	for _, n := range topo {
		for _, child := range n.Children() {
			assert.Less(t, position[child], position[n],
				"operand must appear before its parent")
		}
	}

	// The full graph: x, sq, y, z — each exactly once.
	assert.Len(t, topo, 4)
}

// TestGradientAccumulation: y = x*x + x at x=3 must give y=12 and
// dy/dx = 2x + 1 = 7, the two paths through x summing correctly.
func TestGradientAccumulation(t *testing.T) {
	x := NewLeaf(3.0)
	y := x.Mul(x).Add(x)

	require.Equal(t, 12.0, y.Data)

	y.Backward()
	assert.Equal(t, 7.0, x.Grad)
	assert.Equal(t, 1.0, y.Grad)
}

// TestBackwardComposed exercises a composed expression with shared
// subexpressions and ReLU gating.
func TestBackwardComposed(t *testing.T) {
	x := NewLeaf(-4.0)
	z := x.MulScalar(2).AddScalar(2).Add(x) // z = 2x + 2 + x = -10
	q := z.Relu().Add(z.Mul(x))             // q = relu(z) + z*x = 40
	h := z.Mul(z).Relu()                    // h = relu(z²) = 100
	y := h.Add(q).Add(q.Mul(x))             // y = h + q + q*x = -20

	require.Equal(t, -20.0, y.Data)

	y.Backward()
	assert.InDelta(t, 46.0, x.Grad, 1e-12)
}

func TestLeafBackwardIsNoOp(t *testing.T) {
	x := NewLeaf(5.0)
	x.Backward()
	assert.Equal(t, 1.0, x.Grad)
	assert.Equal(t, 5.0, x.Data)
}

func TestRefreshIdempotence(t *testing.T) {
	x := NewLeaf(2.0)
	w := NewLeaf(3.0)
	y := x.Mul(w)

	require.Equal(t, 6.0, y.Data)

	x.Assign(5.0)
	assert.Equal(t, 15.0, y.Refresh(1))
	assert.Equal(t, 15.0, y.Refresh(1))

	// Mutating a leaf without bumping the version must not be observed:
	// y is already stamped at version 1.
	x.Data = 100.0
	assert.Equal(t, 15.0, y.Refresh(1))

	// A strictly larger version picks the change up.
	assert.Equal(t, 300.0, y.Refresh(2))
}

// TestRefreshRecomputesSharedNodesOnce uses a diamond-shaped graph: the
// shared subexpression must be recomputed exactly once per version, which
// is observable through the final value staying consistent.
func TestRefreshRecomputesSharedNodesOnce(t *testing.T) {
	x := NewLeaf(3.0)
	sq := x.Mul(x)
	y := sq.Add(sq) // 2x², sq shared

	require.Equal(t, 18.0, y.Data)

	x.Assign(2.0)
	assert.Equal(t, 8.0, y.Refresh(1))
}

func TestRefreshResetsGradients(t *testing.T) {
	x := NewLeaf(3.0)
	y := x.Mul(x).Add(x)

	y.Backward()
	require.Equal(t, 7.0, x.Grad)

	// Refresh is the gradient-zeroing step between interpreted passes.
	y.Refresh(1)
	assert.Equal(t, 0.0, x.Grad)
	assert.Equal(t, 0.0, y.Grad)

	y.Backward()
	assert.Equal(t, 7.0, x.Grad)
}

func TestAssign(t *testing.T) {
	x := NewLeaf(1.0)
	x.Grad = 42.0

	x.Assign(9.0)
	assert.Equal(t, 9.0, x.Data)
	assert.Equal(t, 0.0, x.Grad)
}

func TestOpLabels(t *testing.T) {
	a := NewLeaf(1.0)
	assert.Equal(t, "leaf", a.Op().String())
	assert.Equal(t, "+", a.Add(a).Op().String())
	assert.Equal(t, "*", a.Mul(a).Op().String())
	assert.Equal(t, "**", a.Pow(2).Op().String())
	assert.Equal(t, "relu", a.Relu().Op().String())
}

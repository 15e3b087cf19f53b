package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradflow-ml/gradflow/internal/graph"
)

func TestNeuronForward(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := NewNeuron(rng, 2, false)

	// Fix the weights so the output is predictable.
	params := n.Parameters()
	require.Len(t, params, 3) // 2 weights + bias
	params[0].Assign(2.0)
	params[1].Assign(-1.0)
	params[2].Assign(0.5)

	x := []*graph.Node{graph.NewLeaf(3.0), graph.NewLeaf(4.0)}
	out := n.Forward(x)

	// 0.5 + 2*3 + (-1)*4 = 2.5
	assert.Equal(t, 2.5, out.Data)
}

func TestNeuronNonlinearity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := NewNeuron(rng, 1, true)

	params := n.Parameters()
	params[0].Assign(1.0)
	params[1].Assign(0.0)

	out := n.Forward([]*graph.Node{graph.NewLeaf(-3.0)})
	assert.Equal(t, 0.0, out.Data)
	assert.Equal(t, graph.OpReLU, out.Op())
}

func TestMLPParameterCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	model := NewMLP(rng, 3, []int{4, 4, 1})

	// (3*4+4) + (4*4+4) + (4*1+1) = 41
	assert.Len(t, model.Parameters(), 41)
}

func TestMLPForwardShape(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	model := NewMLP(rng, 2, []int{5, 3})

	x := []*graph.Node{graph.NewLeaf(1.0), graph.NewLeaf(-1.0)}
	out := model.Forward(x)
	assert.Len(t, out, 3)
}

func TestMLPDeterministicInit(t *testing.T) {
	a := NewMLP(rand.New(rand.NewSource(99)), 2, []int{3, 1})
	b := NewMLP(rand.New(rand.NewSource(99)), 2, []int{3, 1})

	pa, pb := a.Parameters(), b.Parameters()
	require.Equal(t, len(pa), len(pb))
	for i := range pa {
		assert.Equal(t, pa[i].Data, pb[i].Data, "parameter %d", i)
	}
}

func TestZeroGrad(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	model := NewMLP(rng, 2, []int{2, 1})

	out := model.Forward([]*graph.Node{graph.NewLeaf(1.0), graph.NewLeaf(2.0)})[0]
	out.Backward()

	model.ZeroGrad()
	for i, p := range model.Parameters() {
		assert.Equal(t, 0.0, p.Grad, "parameter %d", i)
	}
}

// Package nn provides a minimal model-definition layer on top of the
// graph package: neurons, fully connected layers and multi-layer
// perceptrons built from scalar nodes.
//
// Modules expose their trainable leaves through Parameters() in a stable
// order — the ordered sequence the compile package consumes.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	model := nn.NewMLP(rng, 2, []int{8, 8, 1})
//
//	x := []*graph.Node{graph.NewLeaf(1.0), graph.NewLeaf(-0.5)}
//	out := model.Forward(x) // one score node
package nn

import (
	"math/rand"

	"github.com/gradflow-ml/gradflow/internal/graph"
)

// Module is anything holding trainable parameter leaves.
type Module interface {
	// Parameters returns the module's trainable leaves in a stable order.
	Parameters() []*graph.Node

	// ZeroGrad resets every parameter's gradient to zero.
	ZeroGrad()
}

// Neuron computes relu(w·x + b), or just w·x + b for the output layer.
type Neuron struct {
	weights []*graph.Node
	bias    *graph.Node
	nonlin  bool
}

// NewNeuron creates a neuron with nin inputs. Weights are drawn uniformly
// from [-1, 1); the bias starts at zero.
func NewNeuron(rng *rand.Rand, nin int, nonlin bool) *Neuron {
	weights := make([]*graph.Node, nin)
	for i := range weights {
		weights[i] = graph.NewLeaf(rng.Float64()*2 - 1)
	}
	return &Neuron{
		weights: weights,
		bias:    graph.NewLeaf(0),
		nonlin:  nonlin,
	}
}

// Forward builds the neuron's activation graph over the input nodes.
// len(x) must equal the neuron's input count.
func (n *Neuron) Forward(x []*graph.Node) *graph.Node {
	act := n.bias
	for i, w := range n.weights {
		act = act.Add(w.Mul(x[i]))
	}
	if n.nonlin {
		return act.Relu()
	}
	return act
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*graph.Node {
	return append(append([]*graph.Node(nil), n.weights...), n.bias)
}

// ZeroGrad resets every parameter's gradient to zero.
func (n *Neuron) ZeroGrad() {
	for _, p := range n.Parameters() {
		p.Grad = 0
	}
}

// Layer is a fully connected layer of neurons sharing the same inputs.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates a layer mapping nin inputs to nout outputs.
func NewLayer(rng *rand.Rand, nin, nout int, nonlin bool) *Layer {
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(rng, nin, nonlin)
	}
	return &Layer{neurons: neurons}
}

// Forward applies every neuron to the same inputs.
func (l *Layer) Forward(x []*graph.Node) []*graph.Node {
	out := make([]*graph.Node, len(l.neurons))
	for i, n := range l.neurons {
		out[i] = n.Forward(x)
	}
	return out
}

// Parameters returns the parameters of all neurons, in neuron order.
func (l *Layer) Parameters() []*graph.Node {
	var params []*graph.Node
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// ZeroGrad resets every parameter's gradient to zero.
func (l *Layer) ZeroGrad() {
	for _, p := range l.Parameters() {
		p.Grad = 0
	}
}

// MLP is a multi-layer perceptron. Every layer applies ReLU except the
// last, which stays linear so outputs can take any sign.
type MLP struct {
	layers []*Layer
}

// NewMLP creates an MLP with nin inputs and one layer per entry of nouts.
//
// Example:
//
//	model := nn.NewMLP(rng, 3, []int{4, 4, 1}) // two hidden layers, one output
func NewMLP(rng *rand.Rand, nin int, nouts []int) *MLP {
	sizes := append([]int{nin}, nouts...)
	layers := make([]*Layer, len(nouts))
	for i := range layers {
		nonlin := i != len(nouts)-1
		layers[i] = NewLayer(rng, sizes[i], sizes[i+1], nonlin)
	}
	return &MLP{layers: layers}
}

// Forward builds the full forward graph for one input vector.
func (m *MLP) Forward(x []*graph.Node) []*graph.Node {
	for _, layer := range m.layers {
		x = layer.Forward(x)
	}
	return x
}

// Parameters returns all parameters in layer order.
func (m *MLP) Parameters() []*graph.Node {
	var params []*graph.Node
	for _, layer := range m.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// ZeroGrad resets every parameter's gradient to zero.
func (m *MLP) ZeroGrad() {
	for _, p := range m.Parameters() {
		p.Grad = 0
	}
}

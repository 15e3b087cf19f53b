// Package graph implements the scalar computation graph at the heart of
// gradflow.
//
// A Node holds one scalar result together with its accumulated gradient.
// Composing nodes through Add, Mul, Pow and Relu builds a directed acyclic
// graph; every composition eagerly computes and stores its forward value,
// so a freshly built graph is already evaluated.
//
// Architecture:
//   - Closed operator set: Leaf, Add, Mul, Pow (constant exponent), ReLU
//   - Tagged node variants with exhaustive switches for forward, backward
//     and traversal
//   - Reverse-mode AD: Backward seeds the root gradient and walks the
//     reverse topological order applying the chain rule
//   - Versioned refresh: Refresh(k) re-evaluates the graph after a leaf
//     changed, deduplicating work across shared subexpressions
//
// Usage:
//
//	x := graph.NewLeaf(3.0)
//	y := x.Mul(x).Add(x) // y = x² + x = 12
//
//	y.Backward()
//	fmt.Println(x.Grad) // dy/dx = 2x + 1 = 7
//
// The graph must be acyclic. Nodes may be shared between parents (a
// parameter feeding several consumers is the common case); a cyclic graph
// is a precondition violation and causes unbounded recursion.
package graph

import (
	"fmt"
	"math"
)

// Op identifies a node's operator. The set is closed: the backward pass,
// the refresh path and the compiler all switch exhaustively over it.
type Op uint8

// Node operator tags.
const (
	OpLeaf Op = iota // settable scalar, no operands
	OpAdd            // lhs + rhs
	OpMul            // lhs * rhs
	OpPow            // lhs ^ exponent (constant exponent)
	OpReLU           // max(0, lhs)
)

// String returns the diagnostic label for the operator.
func (op Op) String() string {
	switch op {
	case OpLeaf:
		return "leaf"
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpPow:
		return "**"
	case OpReLU:
		return "relu"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Node is one scalar computation result in the graph.
//
// Data always reflects the node's operator applied to its operands' Data
// as of the most recent construction or Refresh. Grad accumulates the
// upstream gradient during Backward and is reset to zero by Refresh.
//
// Nodes are created once when the owning expression is built and mutated
// in place thereafter; node identity is pointer identity.
type Node struct {
	Data float64 // current forward value
	Grad float64 // accumulated upstream gradient

	op       Op
	lhs, rhs *Node   // operands; rhs is nil for unary and leaf nodes
	exponent float64 // OpPow only, baked in at construction
	version  int     // version at which Data was last computed
}

// NewLeaf creates a leaf node holding the given scalar.
func NewLeaf(data float64) *Node {
	return &Node{Data: data, op: OpLeaf}
}

// Op returns the node's operator tag.
func (n *Node) Op() Op {
	return n.op
}

// Exponent returns the constant exponent of a Pow node.
// It is zero for every other operator.
func (n *Node) Exponent() float64 {
	return n.exponent
}

// Children returns the node's direct operands. Leaf nodes have none.
func (n *Node) Children() []*Node {
	switch n.op {
	case OpLeaf:
		return nil
	case OpPow, OpReLU:
		return []*Node{n.lhs}
	default:
		return []*Node{n.lhs, n.rhs}
	}
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("Node(op=%s, data=%v, grad=%v)", n.op, n.Data, n.Grad)
}

// Add returns a new node computing n + other.
func (n *Node) Add(other *Node) *Node {
	return &Node{Data: n.Data + other.Data, op: OpAdd, lhs: n, rhs: other}
}

// Mul returns a new node computing n * other.
func (n *Node) Mul(other *Node) *Node {
	return &Node{Data: n.Data * other.Data, op: OpMul, lhs: n, rhs: other}
}

// Pow returns a new node computing n raised to a constant exponent.
// The exponent is not a graph node; it is baked into the operation.
// A non-finite exponent is a programming error and panics.
func (n *Node) Pow(exponent float64) *Node {
	if math.IsNaN(exponent) || math.IsInf(exponent, 0) {
		panic(fmt.Sprintf("graph: Pow exponent must be finite, got %v", exponent))
	}
	return &Node{Data: math.Pow(n.Data, exponent), op: OpPow, lhs: n, exponent: exponent}
}

// Relu returns a new node computing max(0, n).
func (n *Node) Relu() *Node {
	data := n.Data
	if data < 0 {
		data = 0
	}
	return &Node{Data: data, op: OpReLU, lhs: n}
}

// Neg returns a new node computing -n, expressed as n * -1.
func (n *Node) Neg() *Node {
	return n.Mul(NewLeaf(-1))
}

// Sub returns a new node computing n - other, expressed as n + (-other).
func (n *Node) Sub(other *Node) *Node {
	return n.Add(other.Neg())
}

// Div returns a new node computing n / other, expressed as n * other⁻¹.
func (n *Node) Div(other *Node) *Node {
	return n.Mul(other.Pow(-1))
}

// AddScalar returns a new node computing n + c, wrapping c as a leaf.
func (n *Node) AddScalar(c float64) *Node {
	return n.Add(NewLeaf(c))
}

// MulScalar returns a new node computing n * c, wrapping c as a leaf.
func (n *Node) MulScalar(c float64) *Node {
	return n.Mul(NewLeaf(c))
}

// SubScalar returns a new node computing n - c, wrapping c as a leaf.
func (n *Node) SubScalar(c float64) *Node {
	return n.Sub(NewLeaf(c))
}

// DivScalar returns a new node computing n / c, wrapping c as a leaf.
func (n *Node) DivScalar(c float64) *Node {
	return n.Div(NewLeaf(c))
}

// Assign sets a leaf's value, zeroes its gradient and marks it stale so
// the next Refresh with any positive version recomputes its consumers.
func (n *Node) Assign(value float64) {
	n.Data = value
	n.Grad = 0
	n.version = 0
}

// Refresh re-evaluates the node for version k and returns its value.
//
// If the node was already computed at version k or later, the cached
// value is returned untouched. Otherwise the operands are refreshed
// first, Data is recomputed, Grad is reset to zero and the node is
// stamped with version k. Shared subexpressions are recomputed exactly
// once per version thanks to the stamp.
func (n *Node) Refresh(k int) float64 {
	if n.op == OpLeaf {
		if n.version < k {
			n.version = k
			n.Grad = 0
		}
		return n.Data
	}

	if n.version >= k {
		return n.Data
	}

	switch n.op {
	case OpAdd:
		n.Data = n.lhs.Refresh(k) + n.rhs.Refresh(k)
	case OpMul:
		n.Data = n.lhs.Refresh(k) * n.rhs.Refresh(k)
	case OpPow:
		n.Data = math.Pow(n.lhs.Refresh(k), n.exponent)
	case OpReLU:
		if v := n.lhs.Refresh(k); v > 0 {
			n.Data = v
		} else {
			n.Data = 0
		}
	}
	n.version = k
	n.Grad = 0
	return n.Data
}

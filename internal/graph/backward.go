package graph

import "math"

// buildTopo appends the node's subgraph to topo in depth-first post-order,
// children before the node itself. visited deduplicates shared nodes by
// pointer identity, so each node appears exactly once.
func (n *Node) buildTopo(visited map[*Node]struct{}, topo *[]*Node) {
	if _, ok := visited[n]; ok {
		return
	}
	visited[n] = struct{}{}
	if n.rhs != nil {
		n.rhs.buildTopo(visited, topo)
	}
	if n.lhs != nil {
		n.lhs.buildTopo(visited, topo)
	}
	*topo = append(*topo, n)
}

// Topo returns a topological order of the graph rooted at n: every node's
// operands appear before the node itself, and no node appears twice.
// Reversed, this is the schedule for the backward sweep.
func (n *Node) Topo() []*Node {
	var topo []*Node
	n.buildTopo(make(map[*Node]struct{}), &topo)
	return topo
}

// backwardStep propagates one step of the chain rule from n to its
// operands, accumulating (never overwriting) into their gradients.
// Leaf nodes propagate nothing.
func (n *Node) backwardStep() {
	switch n.op {
	case OpLeaf:
	case OpAdd:
		n.lhs.Grad += n.Grad
		n.rhs.Grad += n.Grad
	case OpMul:
		n.lhs.Grad += n.rhs.Data * n.Grad
		n.rhs.Grad += n.lhs.Data * n.Grad
	case OpPow:
		n.lhs.Grad += n.exponent * math.Pow(n.lhs.Data, n.exponent-1) * n.Grad
	case OpReLU:
		if n.Data > 0 {
			n.lhs.Grad += n.Grad
		}
	}
}

// Backward runs a full reverse-mode differentiation pass rooted at n.
//
// It seeds n's gradient with 1.0 and walks the reverse topological order,
// applying each node's one-step chain rule. A node shared by several
// parents receives every parent's contribution before propagating to its
// own operands.
//
// Callers must ensure every gradient except the root's is zero before the
// pass begins; Refresh does this as part of re-evaluation, and freshly
// constructed nodes start at zero.
func (n *Node) Backward() {
	topo := n.Topo()

	n.Grad = 1.0
	for i := len(topo) - 1; i >= 0; i-- {
		topo[i].backwardStep()
	}
}

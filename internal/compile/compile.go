// Package compile lowers a finished computation graph into a Program: a
// flat register-machine procedure specialized for repeated training steps.
//
// The compiler walks the graph once, assigns every node a dense slot in a
// flat value/gradient register file, and emits a forward and a backward
// instruction sequence over those slots. The resulting Program behaves
// exactly like the interpreted refresh/backward/update cycle of the graph
// package but never traverses node objects at call time — the central
// performance transformation is replacing pointer-chasing over a DAG with
// array-slot addressing in a tight loop.
//
// Usage:
//
//	prog, err := compile.Compile(model.Parameters(), scores, loss, inputs)
//	if err != nil {
//	    return err
//	}
//	for step := 0; step < steps; step++ {
//	    loss := prog.EvalStep(0.01)
//	    ...
//	}
package compile

import (
	"errors"
	"fmt"

	"github.com/gradflow-ml/gradflow/internal/graph"
)

// compiler accumulates slot assignments and emitted instructions during
// one Compile call.
type compiler struct {
	slots   map[*graph.Node]int
	visited map[*graph.Node]struct{}

	forward  []instr
	backward []instr
}

// slot returns the node's slot index, assigning the next dense index the
// first time the node is seen.
func (c *compiler) slot(n *graph.Node) int {
	index, ok := c.slots[n]
	if !ok {
		index = len(c.slots)
		c.slots[n] = index
	}
	return index
}

// emitForward emits the forward instruction for n and, first, for every
// operand not yet emitted. Each node is emitted exactly once, children
// before parents. Gradient zeroing is fused into every instruction (see
// Program.EvalStep), so leaves emit a grad-zeroing no-op.
func (c *compiler) emitForward(n *graph.Node) error {
	if _, ok := c.visited[n]; ok {
		return nil
	}
	c.visited[n] = struct{}{}

	dst := c.slot(n)

	switch n.Op() {
	case graph.OpLeaf:
		c.forward = append(c.forward, instr{op: opLeaf, dst: dst})

	case graph.OpAdd, graph.OpMul:
		operands := n.Children()
		lhs, rhs := c.slot(operands[0]), c.slot(operands[1])
		if err := c.emitForward(operands[0]); err != nil {
			return err
		}
		if err := c.emitForward(operands[1]); err != nil {
			return err
		}
		code := opAdd
		if n.Op() == graph.OpMul {
			code = opMul
		}
		c.forward = append(c.forward, instr{op: code, dst: dst, lhs: lhs, rhs: rhs})

	case graph.OpPow:
		arg := n.Children()[0]
		lhs := c.slot(arg)
		if err := c.emitForward(arg); err != nil {
			return err
		}
		c.forward = append(c.forward, instr{op: opPow, dst: dst, lhs: lhs, exponent: n.Exponent()})

	case graph.OpReLU:
		arg := n.Children()[0]
		lhs := c.slot(arg)
		if err := c.emitForward(arg); err != nil {
			return err
		}
		c.forward = append(c.forward, instr{op: opRelu, dst: dst, lhs: lhs})

	default:
		return fmt.Errorf("compile: unsupported node %v", n)
	}

	return nil
}

// emitBackward emits the backward sweep: one chain-rule instruction per
// node in reverse topological order. Leaves emit nothing. The loss slot's
// gradient seed is applied by Program.EvalStep, not emitted here.
func (c *compiler) emitBackward(loss *graph.Node) error {
	topo := loss.Topo()

	for i := len(topo) - 1; i >= 0; i-- {
		n := topo[i]
		dst := c.slot(n)

		switch n.Op() {
		case graph.OpLeaf:

		case graph.OpAdd, graph.OpMul:
			operands := n.Children()
			lhs, rhs := c.slot(operands[0]), c.slot(operands[1])
			code := opAdd
			if n.Op() == graph.OpMul {
				code = opMul
			}
			c.backward = append(c.backward, instr{op: code, dst: dst, lhs: lhs, rhs: rhs})

		case graph.OpPow:
			lhs := c.slot(n.Children()[0])
			c.backward = append(c.backward, instr{op: opPow, dst: dst, lhs: lhs, exponent: n.Exponent()})

		case graph.OpReLU:
			lhs := c.slot(n.Children()[0])
			c.backward = append(c.backward, instr{op: opRelu, dst: dst, lhs: lhs})

		default:
			return fmt.Errorf("compile: unsupported node %v", n)
		}
	}

	return nil
}

// Compile lowers the graph rooted at loss into a Program.
//
// params is the ordered parameter leaf sequence targeted by EvalStep's
// gradient-descent update; scores are the output nodes exposed through
// Scores; inputs (optional, may be nil) are the leaves rebindable through
// SetInputs. Parameters, scores and the loss receive slots even when
// structurally unreachable from the loss; input nodes receive slots only
// through reachability, and unreachable ones are discarded by SetInputs.
//
// Every slot's initial value is snapshotted from the node's Data at
// compile time; the Program never reads the nodes again.
func Compile(params, scores []*graph.Node, loss *graph.Node, inputs []*graph.Node) (*Program, error) {
	if loss == nil {
		return nil, errors.New("compile: loss node is required")
	}

	c := &compiler{
		slots:   make(map[*graph.Node]int),
		visited: make(map[*graph.Node]struct{}),
	}

	for _, p := range params {
		c.slot(p)
	}
	for _, s := range scores {
		c.slot(s)
	}
	c.slot(loss)

	if err := c.emitForward(loss); err != nil {
		return nil, err
	}
	if err := c.emitBackward(loss); err != nil {
		return nil, err
	}

	prog := &Program{
		vals:       make([]float64, len(c.slots)),
		grads:      make([]float64, len(c.slots)),
		forward:    c.forward,
		backward:   c.backward,
		lossSlot:   c.slots[loss],
		paramSlots: make([]int, len(params)),
		scoreSlots: make([]int, len(scores)),
		inputSlots: make([]int, len(inputs)),
	}

	for node, slot := range c.slots {
		prog.vals[slot] = node.Data
	}
	for i, p := range params {
		prog.paramSlots[i] = c.slots[p]
	}
	for i, s := range scores {
		prog.scoreSlots[i] = c.slots[s]
	}
	for i, in := range inputs {
		if slot, ok := c.slots[in]; ok {
			prog.inputSlots[i] = slot
		} else {
			prog.inputSlots[i] = -1
		}
	}

	return prog, nil
}

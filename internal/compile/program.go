package compile

import (
	"fmt"
	"math"
)

// opcode identifies one instruction of a compiled program. The forward
// and backward programs reuse the same tags; only leaf instructions are
// forward-only (a leaf contributes nothing to the backward sweep).
type opcode uint8

const (
	opLeaf opcode = iota // forward: zero the gradient slot, nothing else
	opAdd
	opMul
	opPow
	opRelu
)

// instr is one register-machine instruction. All operands are slot
// indices into the program's flat value/gradient arrays; exponent is the
// literal constant of a Pow node, baked in at compile time.
type instr struct {
	op       opcode
	dst      int
	lhs, rhs int
	exponent float64
}

// ParamState is one parameter's current value and accumulated gradient.
type ParamState struct {
	Value float64
	Grad  float64
}

// Program is a graph specialized into a flat register-machine procedure.
//
// All node state lives in two dense float64 arrays addressed by the slot
// indices assigned at compile time; running the program never touches the
// node objects it was compiled from. The four entry points — EvalStep,
// Scores, Parameters and SetInputs — share the same register file, so
// mutations made by one are visible to the others.
type Program struct {
	vals  []float64
	grads []float64

	forward  []instr
	backward []instr

	lossSlot   int
	paramSlots []int
	scoreSlots []int
	inputSlots []int // -1 marks an input leaf absent from the compiled graph
}

// EvalStep runs one fused training step: forward pass, backward pass, and
// a gradient-descent update (param -= learningRate * grad) applied after
// the full backward sweep. It returns the loss value for this step.
//
// Gradient zeroing is fused into the forward pass: every forward
// instruction clears its destination's gradient slot, so the previous
// step's gradients are never read before being reset.
func (p *Program) EvalStep(learningRate float64) float64 {
	vals, grads := p.vals, p.grads

	for _, in := range p.forward {
		switch in.op {
		case opLeaf:
		case opAdd:
			vals[in.dst] = vals[in.lhs] + vals[in.rhs]
		case opMul:
			vals[in.dst] = vals[in.lhs] * vals[in.rhs]
		case opPow:
			vals[in.dst] = math.Pow(vals[in.lhs], in.exponent)
		case opRelu:
			if v := vals[in.lhs]; v > 0 {
				vals[in.dst] = v
			} else {
				vals[in.dst] = 0
			}
		}
		grads[in.dst] = 0
	}

	grads[p.lossSlot] = 1.0
	for _, in := range p.backward {
		g := grads[in.dst]
		switch in.op {
		case opAdd:
			grads[in.lhs] += g
			grads[in.rhs] += g
		case opMul:
			grads[in.lhs] += vals[in.rhs] * g
			grads[in.rhs] += vals[in.lhs] * g
		case opPow:
			grads[in.lhs] += in.exponent * math.Pow(vals[in.lhs], in.exponent-1) * g
		case opRelu:
			if vals[in.dst] > 0 {
				grads[in.lhs] += g
			}
		}
	}

	for _, slot := range p.paramSlots {
		vals[slot] -= learningRate * grads[slot]
	}

	return vals[p.lossSlot]
}

// Scores returns the current value of every score node, in the order the
// scores were given to Compile.
func (p *Program) Scores() []float64 {
	out := make([]float64, len(p.scoreSlots))
	for i, slot := range p.scoreSlots {
		out[i] = p.vals[slot]
	}
	return out
}

// Parameters returns the current (value, gradient) pair of every
// parameter, in the order the parameters were given to Compile.
func (p *Program) Parameters() []ParamState {
	out := make([]ParamState, len(p.paramSlots))
	for i, slot := range p.paramSlots {
		out[i] = ParamState{Value: p.vals[slot], Grad: p.grads[slot]}
	}
	return out
}

// SetInputs rebinds the input leaves to the supplied values, matched
// positionally against the input sequence given to Compile, and zeroes
// their gradients. Inputs that did not end up in the compiled graph are
// accepted positionally and silently discarded.
//
// The value count must match the declared input count exactly.
func (p *Program) SetInputs(values []float64) {
	if len(values) != len(p.inputSlots) {
		panic(fmt.Sprintf("compile: SetInputs got %d values for %d declared inputs",
			len(values), len(p.inputSlots)))
	}
	for i, slot := range p.inputSlots {
		if slot < 0 {
			continue
		}
		p.vals[slot] = values[i]
		p.grads[slot] = 0
	}
}

// NumSlots returns the size of the register file, one slot per compiled
// node.
func (p *Program) NumSlots() int {
	return len(p.vals)
}

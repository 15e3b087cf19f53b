// Package optim implements parameter update rules for the interpreted
// training path. The compiled path fuses its update into
// Program.EvalStep; this package gives graph-driven training loops the
// same update semantics.
package optim

import "github.com/gradflow-ml/gradflow/internal/graph"

// Optimizer is the common interface for parameter update rules.
type Optimizer interface {
	// Step applies one update to every parameter from its current gradient.
	Step()

	// ZeroGrad resets every parameter's gradient to zero.
	ZeroGrad()
}

// SGD implements plain stochastic gradient descent over parameter leaves.
//
// Update rule:
//
//	param -= lr * grad
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//
//	for step := 0; step < steps; step++ {
//	    k++
//	    loss.Refresh(k) // zeroes stale gradients
//	    loss.Backward()
//	    optimizer.Step()
//	}
type SGD struct {
	params []*graph.Node
	lr     float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR float64 // learning rate (default: 0.01)
}

// NewSGD creates a new SGD optimizer over the given parameter leaves.
func NewSGD(params []*graph.Node, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{params: params, lr: config.LR}
}

// Step applies param -= lr * grad to every parameter.
func (s *SGD) Step() {
	for _, p := range s.params {
		p.Data -= s.lr * p.Grad
	}
}

// ZeroGrad resets every parameter's gradient to zero.
//
// Not needed when the training loop drives Refresh, which zeroes
// gradients as part of re-evaluation.
func (s *SGD) ZeroGrad() {
	for _, p := range s.params {
		p.Grad = 0
	}
}

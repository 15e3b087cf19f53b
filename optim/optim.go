// Copyright 2025 The Gradflow Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/gradflow-ml/gradflow/internal/graph"
	"github.com/gradflow-ml/gradflow/internal/optim"
)

// Optimizer is the common interface for parameter update rules.
type Optimizer = optim.Optimizer

// SGD implements stochastic gradient descent over parameter leaves.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
func NewSGD(params []*graph.Node, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

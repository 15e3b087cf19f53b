// Copyright 2025 The Gradflow Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for gradflow's model-definition
// layer: neurons, layers and multi-layer perceptrons built from scalar
// graph nodes.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	model := nn.NewMLP(rng, 2, []int{8, 8, 1})
//	out := model.Forward(x)
package nn

import (
	"math/rand"

	"github.com/gradflow-ml/gradflow/internal/nn"
)

// Module is anything holding trainable parameter leaves.
type Module = nn.Module

// Neuron computes relu(w·x + b), or w·x + b without nonlinearity.
type Neuron = nn.Neuron

// Layer is a fully connected layer of neurons.
type Layer = nn.Layer

// MLP is a multi-layer perceptron.
type MLP = nn.MLP

// NewNeuron creates a neuron with nin inputs.
func NewNeuron(rng *rand.Rand, nin int, nonlin bool) *Neuron {
	return nn.NewNeuron(rng, nin, nonlin)
}

// NewLayer creates a layer mapping nin inputs to nout outputs.
func NewLayer(rng *rand.Rand, nin, nout int, nonlin bool) *Layer {
	return nn.NewLayer(rng, nin, nout, nonlin)
}

// NewMLP creates an MLP with nin inputs and one layer per entry of nouts.
func NewMLP(rng *rand.Rand, nin int, nouts []int) *MLP {
	return nn.NewMLP(rng, nin, nouts)
}

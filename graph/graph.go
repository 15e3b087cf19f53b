// Copyright 2025 The Gradflow Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for gradflow's scalar computation
// graph with reverse-mode automatic differentiation.
//
// A Node is one scalar value plus its accumulated gradient. Composing
// nodes through Add, Mul, Pow and Relu eagerly evaluates and wires a DAG;
// Backward propagates gradients to every ancestor; Refresh re-evaluates
// the graph incrementally after a leaf changes.
//
// Example:
//
//	x := graph.NewLeaf(3.0)
//	y := x.Mul(x).Add(x) // y = x² + x
//
//	y.Backward()
//	fmt.Println(y.Data, x.Grad) // 12 7
package graph

import (
	"github.com/gradflow-ml/gradflow/internal/graph"
)

// Node is one scalar computation result in the graph.
type Node = graph.Node

// Op identifies a node's operator.
type Op = graph.Op

// Node operator tags.
const (
	OpLeaf Op = graph.OpLeaf
	OpAdd  Op = graph.OpAdd
	OpMul  Op = graph.OpMul
	OpPow  Op = graph.OpPow
	OpReLU Op = graph.OpReLU
)

// NewLeaf creates a leaf node holding the given scalar.
//
// Example:
//
//	x := graph.NewLeaf(2.5)
func NewLeaf(data float64) *Node {
	return graph.NewLeaf(data)
}

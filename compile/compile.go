// Copyright 2025 The Gradflow Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package compile provides the public API for specializing a trained
// computation graph into a flat register-machine Program.
//
// Compiling eliminates graph-pointer traversal from the training hot
// loop: the Program addresses all node state by dense slot indices into
// two flat arrays and exposes fused forward/backward/update steps.
//
// Example:
//
//	prog, err := compile.Compile(model.Parameters(), scores, loss, inputs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for step := 0; step < 1000; step++ {
//	    prog.EvalStep(0.01)
//	}
package compile

import (
	"github.com/gradflow-ml/gradflow/internal/compile"
	"github.com/gradflow-ml/gradflow/internal/graph"
)

// Program is a graph specialized into a flat register-machine procedure.
type Program = compile.Program

// ParamState is one parameter's current value and accumulated gradient.
type ParamState = compile.ParamState

// Compile lowers the graph rooted at loss into a Program. See the
// internal compile package for the full contract.
func Compile(params, scores []*graph.Node, loss *graph.Node, inputs []*graph.Node) (*Program, error) {
	return compile.Compile(params, scores, loss, inputs)
}

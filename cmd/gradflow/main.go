// Package main provides the gradflow CLI.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/gradflow-ml/gradflow/compile"
	"github.com/gradflow-ml/gradflow/graph"
	"github.com/gradflow-ml/gradflow/nn"
	"github.com/gradflow-ml/gradflow/optim"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("gradflow %s\n", version)
			return
		case "demo":
			if err := runDemo(); err != nil {
				fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("gradflow - scalar autograd engine and graph compiler")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Train a small MLP twice: interpreted graph vs compiled program")
}

// runDemo trains the same model with the interpreted engine and with the
// compiled program and prints both loss trajectories, which should match.
func runDemo() error {
	const (
		steps = 50
		lr    = 0.02
	)

	rng := rand.New(rand.NewSource(1337))
	model := nn.NewMLP(rng, 2, []int{8, 1})

	xs := [][]float64{{2, 3}, {-1, -2}, {3, -1}, {0.5, 1}}
	ys := []float64{1, -1, -1, 1}

	scores := make([]*graph.Node, len(xs))
	var loss *graph.Node
	for i, sample := range xs {
		in := []*graph.Node{graph.NewLeaf(sample[0]), graph.NewLeaf(sample[1])}
		scores[i] = model.Forward(in)[0]
		term := scores[i].SubScalar(ys[i]).Pow(2)
		if loss == nil {
			loss = term
		} else {
			loss = loss.Add(term)
		}
	}

	prog, err := compile.Compile(model.Parameters(), scores, loss, nil)
	if err != nil {
		return err
	}

	sgd := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: lr})

	fmt.Printf("%5s  %14s  %14s\n", "step", "interpreted", "compiled")
	k := 0
	for step := 0; step < steps; step++ {
		k++
		interpreted := loss.Refresh(k)
		loss.Backward()
		sgd.Step()

		compiled := prog.EvalStep(lr)

		if step%5 == 0 || step == steps-1 {
			fmt.Printf("%5d  %14.8f  %14.8f\n", step, interpreted, compiled)
		}
	}

	fmt.Println("\nfinal scores (compiled):", prog.Scores())
	return nil
}

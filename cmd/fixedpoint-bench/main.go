// Command fixedpoint-bench measures fixed-point convergence on synthetic
// self-recursive judgments. It builds a deep recursion chain (parity or
// countdown) or a cyclic reachability graph, evaluates it end to end, and
// prints wall-clock and outcome statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ahrav/go-sequent/internal/engine"
	"github.com/ahrav/go-sequent/internal/testutils"
)

func main() {
	var (
		shape      = flag.String("shape", "parity", "Judgment shape: parity, countdown, or ring")
		size       = flag.Int("size", 1000, "Recursion depth (parity/countdown) or ring node count")
		iterations = flag.Int("iterations", 10, "Number of evaluation runs to average over")
		configPath = flag.String("config", "", "Optional engine config file (YAML)")
	)
	flag.Parse()

	var runOpts []engine.RunOption
	if *configPath != "" {
		cfg, err := engine.NewConfigLoader().LoadFromFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		runOpts = cfg.RunOptions()
	}

	ctx := context.Background()

	var (
		elapsed time.Duration
		proven  int
		outputs int
	)
	for i := 0; i < *iterations; i++ {
		p, o, d := evaluate(ctx, *shape, *size, runOpts)
		proven += p
		outputs += o
		elapsed += d
	}

	fmt.Printf("Fixed-point benchmark:\n")
	fmt.Printf("- Shape: %s\n", *shape)
	fmt.Printf("- Size: %d\n", *size)
	fmt.Printf("- Iterations: %d\n", *iterations)
	fmt.Printf("- Proven: %d/%d\n", proven, *iterations)
	fmt.Printf("- Output elements per run: %d\n", outputs / *iterations)
	fmt.Printf("- Average wall time: %s\n", elapsed/time.Duration(*iterations))
}

// evaluate runs one full proof of the selected judgment shape and
// returns whether it was proven, the output set size, and wall time.
func evaluate(ctx context.Context, shape string, size int, runOpts []engine.RunOption) (int, int, time.Duration) {
	run := engine.NewRun(runOpts...)
	start := time.Now()

	switch shape {
	case "parity":
		// Even inputs recurse all the way to zero before proving.
		n := size * 2
		outcome := testutils.NewParityJudgment().Apply(ctx, run, n)
		return provenCount(outcome.IsProven()), outputLen(outcome.IsProven(), func() int {
			return outcome.MustOutputs().Len()
		}), time.Since(start)
	case "countdown":
		outcome := testutils.NewCountdownJudgment().Apply(ctx, run, size)
		return provenCount(outcome.IsProven()), outputLen(outcome.IsProven(), func() int {
			return outcome.MustOutputs().Len()
		}), time.Since(start)
	case "ring":
		// A directed cycle over size nodes: reachability from any node
		// must converge on the whole ring, exercising multi-round
		// fixed-point iteration.
		outcome := testutils.NewReachabilityJudgment(ringEdges(size)).Apply(ctx, run, "n0")
		return provenCount(outcome.IsProven()), outputLen(outcome.IsProven(), func() int {
			return outcome.MustOutputs().Len()
		}), time.Since(start)
	default:
		log.Fatalf("Unknown shape %q (want parity, countdown, or ring)", shape)
		return 0, 0, 0
	}
}

func provenCount(proven bool) int {
	if proven {
		return 1
	}
	return 0
}

func outputLen(proven bool, length func() int) int {
	if !proven {
		return 0
	}
	return length()
}

func ringEdges(nodes int) map[string][]string {
	if nodes < 2 {
		nodes = 2
	}
	edges := make(map[string][]string, nodes)
	for i := 0; i < nodes; i++ {
		from := fmt.Sprintf("n%d", i)
		to := fmt.Sprintf("n%d", (i+1)%nodes)
		edges[from] = []string{to}
	}
	return edges
}

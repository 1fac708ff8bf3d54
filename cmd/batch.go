package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sim "github.com/inference-sim/theory-sim/sim"
)

var parallel int // Maximum queries evaluated concurrently

// BatchResult pairs a query document with its response.
type BatchResult struct {
	File     string       `yaml:"file" json:"file"`
	Type     string       `yaml:"type" json:"type"`
	Response sim.Response `yaml:"response" json:"response"`
}

var batchCmd = &cobra.Command{
	Use:   "batch QUERY_FILE...",
	Short: "Evaluate query documents concurrently",
	Long:  "Evaluate query documents ({type: single|chain|step|all, data: {...}} in YAML or JSON) concurrently and print the responses in argument order.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		queries := make([]sim.Query, len(args))
		for i, path := range args {
			q, err := LoadQuery(path)
			if err != nil {
				logrus.Fatalf("Failed to load query: %v", err)
			}
			queries[i] = q
		}

		reg, err := loadTuning(tuningPath)
		if err != nil {
			logrus.Fatalf("Failed to load tuning: %v", err)
		}
		// Run traces are per-simulator and not shared across goroutines.
		s, err := sim.NewDefaultSimulator(reg)
		if err != nil {
			logrus.Fatalf("Failed to create simulator: %v", err)
		}

		logrus.Infof("Evaluating %d queries with parallelism %d", len(queries), parallel)
		responses, err := RunBatch(cmd.Context(), s, queries, parallel)
		if err != nil {
			logrus.Fatalf("Batch failed: %v", err)
		}

		results := make([]BatchResult, len(args))
		for i, path := range args {
			results[i] = BatchResult{File: path, Type: queries[i].QueryType(), Response: responses[i]}
		}
		if err := writeOutput(os.Stdout, results, outputFormat); err != nil {
			logrus.Fatalf("Failed to write responses: %v", err)
		}
	},
}

// RunBatch evaluates queries on s with at most parallel in flight (unbounded
// when parallel < 1). Responses are returned in query order. The first failure
// cancels queries not yet started and is returned. s must not carry a run trace.
func RunBatch(ctx context.Context, s *sim.Simulator, queries []sim.Query, parallel int) ([]sim.Response, error) {
	responses := make([]sim.Response, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resp, err := s.Simulate(q)
			if err != nil {
				return fmt.Errorf("query %d (%s): %w", i, q.QueryType(), err)
			}
			logrus.Debugf("query %d (%s) done", i, q.QueryType())
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

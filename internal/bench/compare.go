package bench

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	dreval "github.com/jamesainslie/go-dreval"
)

// Prediction is one classifier's output aligned with the ground truth.
type Prediction struct {
	Name   string
	Labels []int
}

// Model names an ONNX classifier file.
type Model struct {
	Name string
	Path string
}

// Result is the evaluation of one classifier.
type Result struct {
	Name    string
	Rates   *dreval.Rates
	Metrics Metrics
}

func newResult(name string, r *dreval.Rates) Result {
	return Result{Name: name, Rates: r, Metrics: Summarize(r)}
}

// Compare evaluates every prediction against truth concurrently, running at
// most limit evaluations at once (limit <= 0 means no limit). Results keep
// the order of preds. The first failure cancels the rest.
func Compare(ctx context.Context, truth []int, preds []Prediction, limit int) ([]Result, error) {
	results := make([]Result, len(preds))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, p := range preds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rates, err := dreval.ComputeRates(truth, p.Labels)
			if err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			results[i] = newResult(p.Name, rates)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CompareModels loads and evaluates ONNX classifiers concurrently on the same
// features and binary ground truth. Each evaluator is closed before returning.
func CompareModels(ctx context.Context, models []Model, features [][]float32, truth []int, limit int, opts ...dreval.Option) ([]Result, error) {
	results := make([]Result, len(models))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, m := range models {
		g.Go(func() error {
			e, err := dreval.New(m.Path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			defer func() { _ = e.Close() }()

			rates, err := e.Evaluate(ctx, features, truth)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			results[i] = newResult(m.Name, rates)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

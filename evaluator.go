package dreval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jamesainslie/go-dreval/inference"
)

// Evaluator scores feature rows with a pre-trained ONNX binary classifier and
// evaluates its predictions against ground truth. It is safe for concurrent use.
type Evaluator struct {
	pool      *inference.Pool
	threshold float32
	batchSize int
	logger    *slog.Logger
}

// New creates an Evaluator for the classifier stored at modelPath.
func New(modelPath string, opts ...Option) (*Evaluator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	if cfg.library != "" {
		inference.SetLibraryPath(cfg.library)
	}

	pool, err := inference.NewPool(modelPath, cfg.poolSize, cfg.io)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	cfg.logger.Debug("classifier loaded",
		slog.String("model", pool.ModelPath()),
		slog.Int("pool_size", pool.Size()),
		slog.Float64("threshold", float64(cfg.threshold)))

	return &Evaluator{
		pool:      pool,
		threshold: cfg.threshold,
		batchSize: cfg.batchSize,
		logger:    cfg.logger,
	}, nil
}

// Threshold returns the decision threshold.
func (e *Evaluator) Threshold() float32 {
	return e.threshold
}

// Scores returns the positive-class score for every feature row.
func (e *Evaluator) Scores(ctx context.Context, features [][]float32) ([]float32, error) {
	if len(features) == 0 {
		return []float32{}, nil
	}

	cols := len(features[0])
	for i, row := range features {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), cols)
		}
	}

	session, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.pool.Release(session)

	out := make([]float32, 0, len(features))
	buf := make([]float32, 0, min(e.batchSize, len(features))*cols)
	for start := 0; start < len(features); start += e.batchSize {
		end := min(start+e.batchSize, len(features))

		buf = buf[:0]
		for _, row := range features[start:end] {
			buf = append(buf, row...)
		}

		scores, err := session.Infer(ctx, buf, end-start, cols)
		if err != nil {
			return nil, fmt.Errorf("rows %d-%d: %w", start, end-1, err)
		}
		out = append(out, scores...)
	}

	return out, nil
}

// Predict returns Negative or Positive for every feature row.
func (e *Evaluator) Predict(ctx context.Context, features [][]float32) ([]int, error) {
	scores, err := e.Scores(ctx, features)
	if err != nil {
		return nil, err
	}
	return ApplyThreshold(scores, e.threshold), nil
}

// Evaluate predicts every row and computes rates against truth, which must
// already be binary. Length mismatch fails before inference runs.
func (e *Evaluator) Evaluate(ctx context.Context, features [][]float32, truth []int) (*Rates, error) {
	if len(features) != len(truth) {
		return nil, fmt.Errorf("%w: %d feature rows, %d labels", ErrShapeMismatch, len(features), len(truth))
	}

	predicted, err := e.Predict(ctx, features)
	if err != nil {
		return nil, err
	}

	rates, err := ComputeRates(truth, predicted)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("classifier evaluated",
		slog.Int("samples", len(truth)),
		slog.Float64("detection_rate", rates.DetectionRate()),
		slog.Float64("false_alarm_rate", rates.FalseAlarmRate()))

	return rates, nil
}

// Close releases all resources.
func (e *Evaluator) Close() error {
	if e.pool != nil {
		return e.pool.Close()
	}
	return nil
}

// ApplyThreshold maps scores to Positive where score > t, else Negative.
func ApplyThreshold(scores []float32, t float32) []int {
	out := make([]int, len(scores))
	for i, s := range scores {
		if s > t {
			out[i] = Positive
		}
	}
	return out
}

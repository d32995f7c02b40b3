package bench

import (
	"context"
	"fmt"
	"math"

	dreval "github.com/jamesainslie/go-dreval"
)

// SweepResult holds rates for one decision threshold.
type SweepResult struct {
	Threshold float32
	Metrics   Metrics
}

// SweepThresholds generates threshold values from min to max with given step.
func SweepThresholds(min, max, step float32) []float32 {
	var thresholds []float32
	if step <= 0 {
		return thresholds
	}
	for t := min; t < max; t += step {
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep applies every threshold to the same positive-class scores and
// evaluates the resulting labels against binary truth. Results follow the
// order of thresholds, tracing the detection/false-alarm trade-off.
func Sweep(ctx context.Context, scores []float32, truth []int, thresholds []float32) ([]SweepResult, error) {
	if len(scores) != len(truth) {
		return nil, fmt.Errorf("%w: %d scores, %d labels", dreval.ErrShapeMismatch, len(scores), len(truth))
	}

	results := make([]SweepResult, 0, len(thresholds))
	for _, threshold := range thresholds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rates, err := dreval.ComputeRates(truth, dreval.ApplyThreshold(scores, threshold))
		if err != nil {
			return nil, err
		}
		results = append(results, SweepResult{
			Threshold: threshold,
			Metrics:   Summarize(rates),
		})
	}

	return results, nil
}

// Best returns the sweep result with the highest detection rate whose false
// alarm rate does not exceed maxFalseAlarm. Ties go to the lower false alarm
// rate. ok is false when no threshold qualifies.
func Best(results []SweepResult, maxFalseAlarm float64) (best SweepResult, ok bool) {
	for _, r := range results {
		dr, far := r.Metrics.DetectionRate, r.Metrics.FalseAlarmRate
		if math.IsNaN(dr) || math.IsNaN(far) || far > maxFalseAlarm {
			continue
		}
		if !ok || dr > best.Metrics.DetectionRate ||
			(dr == best.Metrics.DetectionRate && far < best.Metrics.FalseAlarmRate) {
			best, ok = r, true
		}
	}
	return best, ok
}

package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dreval "github.com/jamesainslie/go-dreval"
)

func TestSweepThresholds(t *testing.T) {
	thresholds := SweepThresholds(0.01, 0.1, 0.02)

	want := []float32{0.01, 0.03, 0.05, 0.07, 0.09}
	require.Len(t, thresholds, len(want), "got: %v", thresholds)
	for i := range want {
		assert.InDelta(t, want[i], thresholds[i], 0.001, "threshold[%d]", i)
	}
}

func TestSweepThresholds_NonPositiveStep(t *testing.T) {
	assert.Empty(t, SweepThresholds(0, 1, 0))
	assert.Empty(t, SweepThresholds(0, 1, -0.1))
}

func TestSweep(t *testing.T) {
	scores := []float32{0.1, 0.4, 0.35, 0.8, 0.9, 0.2}
	truth := []int{0, 0, 1, 1, 1, 0}

	results, err := Sweep(context.Background(), scores, truth, []float32{0.05, 0.3, 0.5, 0.95})
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Everything flagged: all anomalies caught, every normal sample is a false alarm.
	assert.Equal(t, float32(0.05), results[0].Threshold)
	assert.InDelta(t, 1.0, results[0].Metrics.DetectionRate, 1e-9)
	assert.InDelta(t, 1.0, results[0].Metrics.FalseAlarmRate, 1e-9)

	// 0.3: flags 0.4, 0.35, 0.8, 0.9.
	assert.InDelta(t, 1.0, results[1].Metrics.DetectionRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, results[1].Metrics.FalseAlarmRate, 1e-9)

	// 0.5: flags 0.8, 0.9.
	assert.InDelta(t, 2.0/3.0, results[2].Metrics.DetectionRate, 1e-9)
	assert.InDelta(t, 0.0, results[2].Metrics.FalseAlarmRate, 1e-9)

	// Nothing flagged.
	assert.InDelta(t, 0.0, results[3].Metrics.DetectionRate, 1e-9)
	assert.InDelta(t, 0.0, results[3].Metrics.FalseAlarmRate, 1e-9)
}

func TestSweep_ShapeMismatch(t *testing.T) {
	_, err := Sweep(context.Background(), []float32{0.1}, []int{0, 1}, []float32{0.5})
	assert.ErrorIs(t, err, dreval.ErrShapeMismatch)
}

func TestSweep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, []float32{0.1}, []int{0}, []float32{0.5})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBest(t *testing.T) {
	results := []SweepResult{
		{Threshold: 0.1, Metrics: Metrics{DetectionRate: 1.0, FalseAlarmRate: 0.6}},
		{Threshold: 0.3, Metrics: Metrics{DetectionRate: 0.9, FalseAlarmRate: 0.1}},
		{Threshold: 0.4, Metrics: Metrics{DetectionRate: 0.9, FalseAlarmRate: 0.05}},
		{Threshold: 0.7, Metrics: Metrics{DetectionRate: 0.5, FalseAlarmRate: 0.0}},
	}

	best, ok := Best(results, 0.1)
	require.True(t, ok)
	assert.Equal(t, float32(0.4), best.Threshold)

	best, ok = Best(results, 1.0)
	require.True(t, ok)
	assert.Equal(t, float32(0.1), best.Threshold)

	_, ok = Best(results[:1], 0.1)
	assert.False(t, ok)
}

func TestWriteSweep(t *testing.T) {
	results, err := Sweep(t.Context(), []float32{0.2, 0.9, 0.1, 0.8}, []int{0, 1, 0, 1}, []float32{0.5})
	require.NoError(t, err)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSweep(&buf, results, "text"))
		assert.Contains(t, buf.String(), "False alarm rate")
		assert.Contains(t, buf.String(), "0.500")
		assert.Contains(t, buf.String(), "1.0000")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSweep(&buf, results, "json"))

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.InDelta(t, 0.5, decoded[0]["threshold"], 1e-6)
		assert.Equal(t, 1.0, decoded[0]["detection_rate"])
		assert.Equal(t, 0.0, decoded[0]["false_alarm_rate"])
	})

	t.Run("proto unsupported", func(t *testing.T) {
		assert.Error(t, WriteSweep(&bytes.Buffer{}, results, "proto"))
	})
}

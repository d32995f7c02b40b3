package bench

import (
	"math"

	dreval "github.com/jamesainslie/go-dreval"
)

// Metrics flattens a binary evaluation into the counts and scores of the
// Positive (anomalous) class.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	TrueNegatives  int
	DetectionRate  float64
	FalseAlarmRate float64
	Accuracy       float64
	Precision      float64
	F1             float64
}

// Summarize derives Metrics from rates. Undefined ratios are NaN.
func Summarize(r *dreval.Rates) Metrics {
	m := Metrics{
		DetectionRate:  r.DetectionRate(),
		FalseAlarmRate: r.FalseAlarmRate(),
		Accuracy:       r.Accuracy(),
		Precision:      math.NaN(),
		F1:             math.NaN(),
	}

	i, ok := r.Matrix.Index(dreval.Positive)
	if !ok {
		return m
	}

	m.TruePositives = r.Matrix.TP(i)
	m.FalsePositives = r.Matrix.FP(i)
	m.FalseNegatives = r.Matrix.FN(i)
	m.TrueNegatives = r.Matrix.TN(i)

	if m.TruePositives+m.FalsePositives > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}
	if !math.IsNaN(m.Precision) && !math.IsNaN(m.DetectionRate) {
		m.F1 = 0
		if m.Precision+m.DetectionRate > 0 {
			m.F1 = 2 * m.Precision * m.DetectionRate / (m.Precision + m.DetectionRate)
		}
	}

	return m
}

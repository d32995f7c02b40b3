package dreval

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
)

// ConfusionMatrix cross-tabulates true against predicted classes.
// Counts[i][j] is the number of samples whose true class is Classes[i] and
// whose predicted class is Classes[j]. Classes is sorted ascending.
type ConfusionMatrix struct {
	Classes []int
	Counts  [][]int

	index map[int]int
	total int
}

// NewConfusionMatrix builds a matrix over the union of classes observed in
// either sequence together with the binary codes Negative and Positive, so a
// binary evaluation always has both rows even when one class never occurs.
func NewConfusionMatrix(trueLabels, predicted []int) (*ConfusionMatrix, error) {
	if len(trueLabels) != len(predicted) {
		return nil, fmt.Errorf("%w: %d true, %d predicted", ErrShapeMismatch, len(trueLabels), len(predicted))
	}

	observed := make([]int, 0, len(trueLabels)+len(predicted)+2)
	observed = append(observed, Negative, Positive)
	observed = append(observed, trueLabels...)
	observed = append(observed, predicted...)
	classes := lo.Uniq(observed)
	slices.Sort(classes)

	return build(trueLabels, predicted, classes)
}

// NewConfusionMatrixForClasses builds a matrix over an explicit class set.
// Labels outside the set fail with ErrUnknownLabel.
func NewConfusionMatrixForClasses(trueLabels, predicted, classes []int) (*ConfusionMatrix, error) {
	if len(trueLabels) != len(predicted) {
		return nil, fmt.Errorf("%w: %d true, %d predicted", ErrShapeMismatch, len(trueLabels), len(predicted))
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidClasses)
	}
	if dup := lo.FindDuplicates(classes); len(dup) > 0 {
		return nil, fmt.Errorf("%w: duplicate class %d", ErrInvalidClasses, dup[0])
	}

	sorted := slices.Clone(classes)
	slices.Sort(sorted)

	return build(trueLabels, predicted, sorted)
}

// NewConfusionMatrixFromCounts rebuilds a matrix from previously computed
// counts, e.g. a decoded report. classes must be strictly ascending and counts
// square over them with no negative entries.
func NewConfusionMatrixFromCounts(classes []int, counts [][]int) (*ConfusionMatrix, error) {
	if len(classes) == 0 || len(counts) != len(classes) {
		return nil, fmt.Errorf("%w: %d classes, %d rows", ErrInvalidClasses, len(classes), len(counts))
	}
	m := &ConfusionMatrix{
		Classes: slices.Clone(classes),
		Counts:  make([][]int, len(classes)),
		index:   make(map[int]int, len(classes)),
	}
	for i, c := range classes {
		if i > 0 && classes[i-1] >= c {
			return nil, fmt.Errorf("%w: classes not strictly ascending at %d", ErrInvalidClasses, i)
		}
		if len(counts[i]) != len(classes) {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrInvalidClasses, i, len(counts[i]))
		}
		for _, v := range counts[i] {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative count in row %d", ErrInvalidClasses, i)
			}
			m.total += v
		}
		m.index[c] = i
		m.Counts[i] = slices.Clone(counts[i])
	}
	return m, nil
}

func build(trueLabels, predicted, classes []int) (*ConfusionMatrix, error) {
	m := &ConfusionMatrix{
		Classes: classes,
		Counts:  make([][]int, len(classes)),
		index:   make(map[int]int, len(classes)),
	}
	for i, c := range classes {
		m.index[c] = i
		m.Counts[i] = make([]int, len(classes))
	}

	for n := range trueLabels {
		i, ok := m.index[trueLabels[n]]
		if !ok {
			return nil, fmt.Errorf("%w: true label %d at index %d", ErrUnknownLabel, trueLabels[n], n)
		}
		j, ok := m.index[predicted[n]]
		if !ok {
			return nil, fmt.Errorf("%w: predicted label %d at index %d", ErrUnknownLabel, predicted[n], n)
		}
		m.Counts[i][j]++
	}
	m.total = len(trueLabels)

	return m, nil
}

// Len returns the matrix dimension.
func (m *ConfusionMatrix) Len() int {
	return len(m.Classes)
}

// Index returns the row/column position of class.
func (m *ConfusionMatrix) Index(class int) (int, bool) {
	i, ok := m.index[class]
	return i, ok
}

// Total returns the number of samples counted.
func (m *ConfusionMatrix) Total() int {
	return m.total
}

// RowSum returns the number of samples whose true class is at position i.
func (m *ConfusionMatrix) RowSum(i int) int {
	sum := 0
	for _, v := range m.Counts[i] {
		sum += v
	}
	return sum
}

// ColSum returns the number of samples predicted as the class at position i.
func (m *ConfusionMatrix) ColSum(i int) int {
	sum := 0
	for _, row := range m.Counts {
		sum += row[i]
	}
	return sum
}

// TP returns true positives for the class at position i.
func (m *ConfusionMatrix) TP(i int) int {
	return m.Counts[i][i]
}

// FN returns false negatives for the class at position i.
func (m *ConfusionMatrix) FN(i int) int {
	return m.RowSum(i) - m.TP(i)
}

// FP returns false positives for the class at position i.
func (m *ConfusionMatrix) FP(i int) int {
	return m.ColSum(i) - m.TP(i)
}

// TN returns true negatives for the class at position i.
func (m *ConfusionMatrix) TN(i int) int {
	return m.total - (m.TP(i) + m.FN(i) + m.FP(i))
}

// Rates holds per-class rate vectors ordered like Classes. An entry is NaN
// when its denominator is zero, i.e. the class never appears in that role.
type Rates struct {
	Classes []int
	FPR     []float64
	Recall  []float64
	Matrix  *ConfusionMatrix
}

// ComputeRates derives per-class false-positive rate and recall from paired
// true and predicted labels. Unequal lengths fail with ErrShapeMismatch before
// anything is computed.
func ComputeRates(trueLabels, predicted []int) (*Rates, error) {
	m, err := NewConfusionMatrix(trueLabels, predicted)
	if err != nil {
		return nil, err
	}
	return RatesFromMatrix(m), nil
}

// ComputeRatesForClasses is ComputeRates over an explicit class set; the
// returned vectors have len(classes) entries.
func ComputeRatesForClasses(trueLabels, predicted, classes []int) (*Rates, error) {
	m, err := NewConfusionMatrixForClasses(trueLabels, predicted, classes)
	if err != nil {
		return nil, err
	}
	return RatesFromMatrix(m), nil
}

// RatesFromMatrix derives rate vectors from an existing confusion matrix.
func RatesFromMatrix(m *ConfusionMatrix) *Rates {
	r := &Rates{
		Classes: slices.Clone(m.Classes),
		FPR:     make([]float64, m.Len()),
		Recall:  make([]float64, m.Len()),
		Matrix:  m,
	}
	for i := range m.Classes {
		tp, fn, fp, tn := m.TP(i), m.FN(i), m.FP(i), m.TN(i)
		r.Recall[i] = ratio(tp, tp+fn)
		r.FPR[i] = ratio(fp, fp+tn)
	}
	return r
}

// DetectionRate returns recall of the Positive class, NaN if absent.
func (r *Rates) DetectionRate() float64 {
	return r.at(r.Recall, Positive)
}

// FalseAlarmRate returns the false-positive rate of the Positive class: the
// fraction of negative samples flagged as anomalous.
func (r *Rates) FalseAlarmRate() float64 {
	return r.at(r.FPR, Positive)
}

// Accuracy returns the fraction of samples on the diagonal, NaN for no samples.
func (r *Rates) Accuracy() float64 {
	correct := 0
	for i := range r.Matrix.Classes {
		correct += r.Matrix.TP(i)
	}
	return ratio(correct, r.Matrix.Total())
}

func (r *Rates) at(v []float64, class int) float64 {
	i, ok := r.Matrix.Index(class)
	if !ok {
		return math.NaN()
	}
	return v[i]
}

// ratio divides as float64 and yields NaN for a zero denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}

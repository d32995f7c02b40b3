package dreval

import "fmt"

// Binary class codes produced by the mapper. Rate vectors for a binary
// evaluation are indexed by these codes.
const (
	Negative = 0
	Positive = 1
)

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// Mapper collapses a multi-class taxonomy into {Negative, Positive}.
type Mapper struct {
	tax               *Taxonomy
	negative          int
	unknownAsPositive bool
}

// WithNegativeClass overrides the taxonomy's negative class id.
func WithNegativeClass(id int) MapperOption {
	return func(m *Mapper) {
		m.negative = id
	}
}

// WithUnknownAsPositive maps identifiers outside the taxonomy to Positive
// instead of failing with ErrUnknownLabel.
func WithUnknownAsPositive() MapperOption {
	return func(m *Mapper) {
		m.unknownAsPositive = true
	}
}

// NewMapper creates a Mapper over tax. A nil taxonomy selects DefaultTaxonomy.
func NewMapper(tax *Taxonomy, opts ...MapperOption) (*Mapper, error) {
	if tax == nil {
		tax = DefaultTaxonomy()
	}
	m := &Mapper{tax: tax, negative: tax.Negative()}
	for _, opt := range opts {
		opt(m)
	}
	if !tax.Contains(m.negative) {
		return nil, fmt.Errorf("%w: negative class %d", ErrUnknownLabel, m.negative)
	}
	return m, nil
}

// Negative returns the id treated as the negative class.
func (m *Mapper) Negative() int {
	return m.negative
}

// Map returns a new sequence of the same length holding Negative where the
// input equals the negative class and Positive elsewhere. Input is not modified.
func (m *Mapper) Map(labels []int) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		if !m.tax.Contains(l) && !m.unknownAsPositive {
			return nil, fmt.Errorf("%w: %d at index %d", ErrUnknownLabel, l, i)
		}
		if l == m.negative {
			out[i] = Negative
		} else {
			out[i] = Positive
		}
	}
	return out, nil
}

// MapToBinary maps labels drawn from the default taxonomy, using negativeID as
// the negative class.
func MapToBinary(labels []int, negativeID int) ([]int, error) {
	m, err := NewMapper(nil, WithNegativeClass(negativeID))
	if err != nil {
		return nil, err
	}
	return m.Map(labels)
}

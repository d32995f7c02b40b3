package dreval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NormalClass is the name of the benign class in the default taxonomy.
const NormalClass = "normal"

// defaultClasses is the 8-category IoT traffic taxonomy. Ids are what the
// dataset stores in its label column.
var defaultClasses = map[string]int{
	"anomalous(DoSattack)":          0,
	"anomalous(dataProbing)":        1,
	"anomalous(malitiousControl)":   2,
	"anomalous(malitiousOperation)": 3,
	"anomalous(scan)":               4,
	"anomalous(spying)":             5,
	"anomalous(wrongSetUp)":         6,
	NormalClass:                     7,
}

// Taxonomy maps human-readable class names onto identifiers 0..K-1 and
// designates one class as negative (benign). It is immutable once built.
type Taxonomy struct {
	ids      map[string]int
	names    []string // indexed by id
	negative int
}

// taxonomyFile is the YAML layout accepted by LoadTaxonomy.
type taxonomyFile struct {
	Negative string         `yaml:"negative"`
	Classes  map[string]int `yaml:"classes"`
}

// NewTaxonomy builds a taxonomy from a name->id table. Ids must cover 0..K-1
// exactly once and negative must name one of the classes.
func NewTaxonomy(classes map[string]int, negative string) (*Taxonomy, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: no classes", ErrInvalidTaxonomy)
	}

	names := make([]string, len(classes))
	seen := make([]bool, len(classes))
	ids := make(map[string]int, len(classes))
	for name, id := range classes {
		if name == "" {
			return nil, fmt.Errorf("%w: empty class name for id %d", ErrInvalidTaxonomy, id)
		}
		if id < 0 || id >= len(classes) {
			return nil, fmt.Errorf("%w: id %d for %q outside 0..%d", ErrInvalidTaxonomy, id, name, len(classes)-1)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: id %d used by %q and %q", ErrInvalidTaxonomy, id, names[id], name)
		}
		seen[id] = true
		names[id] = name
		ids[name] = id
	}

	neg, ok := ids[negative]
	if !ok {
		return nil, fmt.Errorf("%w: negative class %q not defined", ErrInvalidTaxonomy, negative)
	}

	return &Taxonomy{ids: ids, names: names, negative: neg}, nil
}

// DefaultTaxonomy returns the 8-class taxonomy with "normal" (id 7) as the
// negative class.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(defaultClasses, NormalClass)
	if err != nil {
		panic(fmt.Sprintf("dreval: default taxonomy: %v", err))
	}
	return t
}

// LoadTaxonomy reads a taxonomy from a YAML file of the form
//
//	negative: normal
//	classes:
//	  normal: 0
//	  attack: 1
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}

	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidTaxonomy, path, err)
	}

	return NewTaxonomy(f.Classes, f.Negative)
}

// Len returns the number of classes.
func (t *Taxonomy) Len() int {
	return len(t.names)
}

// Negative returns the id of the negative class.
func (t *Taxonomy) Negative() int {
	return t.negative
}

// ID returns the identifier for a class name.
func (t *Taxonomy) ID(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the class name for an identifier.
func (t *Taxonomy) Name(id int) (string, bool) {
	if !t.Contains(id) {
		return "", false
	}
	return t.names[id], true
}

// Contains reports whether id is a class of this taxonomy.
func (t *Taxonomy) Contains(id int) bool {
	return id >= 0 && id < len(t.names)
}

// Names returns class names ordered by identifier.
func (t *Taxonomy) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

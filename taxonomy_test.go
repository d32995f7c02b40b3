package dreval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.Equal(t, 8, tax.Len())
	assert.Equal(t, 7, tax.Negative())

	id, ok := tax.ID(NormalClass)
	require.True(t, ok)
	assert.Equal(t, 7, id)

	name, ok := tax.Name(4)
	require.True(t, ok)
	assert.Equal(t, "anomalous(scan)", name)

	_, ok = tax.Name(8)
	assert.False(t, ok)
	assert.False(t, tax.Contains(-1))
}

func TestTaxonomy_NamesAreCopies(t *testing.T) {
	tax := DefaultTaxonomy()

	names := tax.Names()
	require.Len(t, names, 8)
	assert.Equal(t, "anomalous(DoSattack)", names[0])
	assert.Equal(t, NormalClass, names[7])

	names[0] = "mutated"
	assert.Equal(t, "anomalous(DoSattack)", tax.Names()[0])
}

func TestNewTaxonomy_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		classes  map[string]int
		negative string
	}{
		{"empty", map[string]int{}, "normal"},
		{"gap in ids", map[string]int{"normal": 0, "attack": 2}, "normal"},
		{"negative id", map[string]int{"normal": -1, "attack": 0}, "normal"},
		{"duplicate id", map[string]int{"normal": 0, "attack": 0}, "normal"},
		{"empty name duplicate id", map[string]int{"": 0, "normal": 0}, "normal"},
		{"empty name", map[string]int{"": 1, "normal": 0}, "normal"},
		{"unknown negative", map[string]int{"normal": 0, "attack": 1}, "benign"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTaxonomy(tt.classes, tt.negative)
			assert.ErrorIs(t, err, ErrInvalidTaxonomy)
		})
	}
}

func TestLoadTaxonomy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	data := []byte("negative: benign\nclasses:\n  benign: 0\n  malware: 1\n  phishing: 2\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	tax, err := LoadTaxonomy(path)
	require.NoError(t, err)

	assert.Equal(t, 3, tax.Len())
	assert.Equal(t, 0, tax.Negative())
	assert.Equal(t, []string{"benign", "malware", "phishing"}, tax.Names())
}

func TestLoadTaxonomy_Errors(t *testing.T) {
	_, err := LoadTaxonomy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classes: [1, 2"), 0o600))
	_, err = LoadTaxonomy(path)
	assert.ErrorIs(t, err, ErrInvalidTaxonomy)
}

func TestNewTaxonomy_DuplicateIDNeverAccepted(t *testing.T) {
	// Map iteration order varies, so repeat to cover both visit orders.
	for range 100 {
		_, err := NewTaxonomy(map[string]int{"": 0, "normal": 0}, "normal")
		require.ErrorIs(t, err, ErrInvalidTaxonomy)
	}
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	dreval "github.com/jamesainslie/go-dreval"
	"github.com/jamesainslie/go-dreval/internal/bench"
	"github.com/jamesainslie/go-dreval/internal/config"
	"github.com/jamesainslie/go-dreval/internal/logging"
)

// parseNamed splits "name=path". Without a name the file's base name,
// less its extension, is used.
func parseNamed(s string) (name, path string, err error) {
	name, path, ok := strings.Cut(s, "=")
	if !ok {
		path = s
		name = strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))
	}
	if name == "" || path == "" {
		return "", "", fmt.Errorf("invalid name=path %q", s)
	}
	return name, path, nil
}

// newMapper builds the label mapper from the taxonomy file, the configured
// negative class name and the --negative flag, in increasing precedence.
func newMapper(cmd *cobra.Command, c *config.Config, opts ...dreval.MapperOption) (*dreval.Mapper, error) {
	tax := dreval.DefaultTaxonomy()
	if c.TaxonomyFile != "" {
		var err error
		if tax, err = dreval.LoadTaxonomy(c.TaxonomyFile); err != nil {
			return nil, err
		}
	}

	if c.NegativeClass != "" {
		id, ok := tax.ID(c.NegativeClass)
		if !ok {
			return nil, fmt.Errorf("%w: negative class %q not in taxonomy", dreval.ErrUnknownLabel, c.NegativeClass)
		}
		opts = append(opts, dreval.WithNegativeClass(id))
	}
	if cmd.Flags().Changed("negative") {
		opts = append(opts, dreval.WithNegativeClass(negative))
	}

	return dreval.NewMapper(tax, opts...)
}

// readLabels loads a label file, or stdin when path is "-".
func readLabels(cmd *cobra.Command, path string) ([]int, error) {
	if path == "-" {
		return bench.ReadLabels(cmd.InOrStdin())
	}
	return bench.LoadLabels(path)
}

// evaluatorOptions translates configuration into Evaluator options.
func evaluatorOptions(c *config.Config, threshold float32) []dreval.Option {
	return []dreval.Option{
		dreval.WithThreshold(threshold),
		dreval.WithPoolSize(c.PoolSize),
		dreval.WithTensorNames(c.InputName, c.OutputName),
		dreval.WithLibraryPath(c.ORTLibrary),
		dreval.WithLogger(logging.Slog(logger)),
	}
}

// resolveThreshold prefers the command's --threshold flag over the config.
func resolveThreshold(cmd *cobra.Command, flagValue float64, c *config.Config) (float32, error) {
	t := c.Threshold
	if cmd.Flags().Changed("threshold") {
		t = flagValue
	}
	if t < 0 || t > 1 {
		return 0, fmt.Errorf("threshold %v outside [0, 1]", t)
	}
	return float32(t), nil
}

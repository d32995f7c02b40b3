package dreval

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-dreval/inference"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	threshold float32
	poolSize  int
	batchSize int
	io        inference.IO
	library   string
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		threshold: 0.5,
		poolSize:  runtime.NumCPU(),
		batchSize: 4096,
		io:        inference.DefaultIO(),
		logger:    slog.Default(),
	}
}

// WithThreshold sets the decision threshold applied to positive-class
// scores (default: 0.5). A sample is Positive when its score exceeds it.
func WithThreshold(t float32) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithPoolSize sets the ONNX session pool size (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithBatchSize caps the rows sent to the model per inference call (default: 4096).
func WithBatchSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithTensorNames sets the model's input and output tensor names
// (default: "float_input", "probabilities").
func WithTensorNames(input, output string) Option {
	return func(c *config) {
		if input != "" {
			c.io.Input = input
		}
		if output != "" {
			c.io.Output = output
		}
	}
}

// WithLibraryPath sets the onnxruntime shared library location.
func WithLibraryPath(path string) Option {
	return func(c *config) {
		c.library = path
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Package inference provides ONNX Runtime integration for pre-trained
// binary classifiers.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error

	ortLibMu   sync.Mutex
	ortLibPath string
)

// SetLibraryPath sets the onnxruntime shared library location. It only has an
// effect before the first session is created. Safe for concurrent use.
func SetLibraryPath(path string) {
	ortLibMu.Lock()
	defer ortLibMu.Unlock()
	ortLibPath = path
}

// LibraryPath returns the configured onnxruntime shared library location.
func LibraryPath() string {
	ortLibMu.Lock()
	defer ortLibMu.Unlock()
	return ortLibPath
}

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		if path := LibraryPath(); path != "" {
			ort.SetSharedLibraryPath(path)
		}
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// IO names the model's feature input and score output tensors.
type IO struct {
	Input  string
	Output string
}

// DefaultIO matches classifiers exported by skl2onnx with zipmap disabled.
func DefaultIO() IO {
	return IO{Input: "float_input", Output: "probabilities"}
}

// Session wraps an ONNX Runtime session for a binary classifier.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string, io IO) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{io.Input},
		[]string{io.Output},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the classifier over rows of features (row-major, rows x cols)
// and returns one positive-class score per row.
//
// A float output of shape [rows, k] yields the last column; a float output of
// shape [rows] is taken as-is; an int64 label output yields 0 or 1.
func (s *Session) Infer(ctx context.Context, features []float32, rows, cols int) ([]float32, error) {
	// Check context before expensive operation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if rows*cols != len(features) {
		return nil, fmt.Errorf("feature buffer has %d values, want %dx%d", len(features), rows, cols)
	}
	if rows == 0 {
		return []float32{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("session is closed")
	}

	input, err := ort.NewTensor(ort.NewShape(int64(rows), int64(cols)), features)
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer func() { _ = input.Destroy() }()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}
	if outputs[0] == nil {
		return nil, errors.New("no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	return scores(outputs[0], rows)
}

// scores flattens a classifier output into one positive-class score per row.
func scores(v ort.Value, rows int) ([]float32, error) {
	out := make([]float32, rows)

	switch t := v.(type) {
	case *ort.Tensor[float32]:
		data := t.GetData()
		if len(data) < rows || len(data)%rows != 0 {
			return nil, fmt.Errorf("output has %d values for %d rows", len(data), rows)
		}
		width := len(data) / rows
		for i := range out {
			out[i] = data[i*width+width-1]
		}
	case *ort.Tensor[int64]:
		data := t.GetData()
		if len(data) != rows {
			return nil, fmt.Errorf("label output has %d values for %d rows", len(data), rows)
		}
		for i, l := range data {
			if l != 0 {
				out[i] = 1
			}
		}
	default:
		return nil, fmt.Errorf("unexpected output tensor type %T", v)
	}

	return out, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}

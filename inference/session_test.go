package inference

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testModelPath = "../testdata/classifier.onnx"
	testFeatures  = 4
)

// newTestSession opens the test classifier, skipping when the model or the
// runtime is unavailable.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("Skipping: model not available at %s", testModelPath)
	}

	session, err := NewSession(testModelPath, DefaultIO())
	if err != nil {
		if isORTUnavailableError(err) {
			t.Skipf("Skipping: ONNX runtime not available: %v", err)
		}
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func TestNewSession_FileNotFound(t *testing.T) {
	_, err := NewSession("../testdata/nonexistent.onnx", DefaultIO())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIO(t *testing.T) {
	io := DefaultIO()
	assert.Equal(t, "float_input", io.Input)
	assert.Equal(t, "probabilities", io.Output)
}

func TestSession_Infer(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	features := []float32{
		0, 0, 0, 0,
		1, 1, 1, 1,
		0.5, 0.2, 0.1, 0.9,
	}

	scores, err := session.Infer(context.Background(), features, 3, testFeatures)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	for i, s := range scores {
		assert.GreaterOrEqual(t, s, float32(0), "score %d", i)
		assert.LessOrEqual(t, s, float32(1), "score %d", i)
	}
}

func TestSession_Infer_NoRows(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	scores, err := session.Infer(context.Background(), nil, 0, testFeatures)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestSession_Infer_BadShape(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	_, err := session.Infer(context.Background(), []float32{1, 2, 3}, 1, testFeatures)
	assert.Error(t, err)
}

func TestSession_Infer_ContextCancellation(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Infer(ctx, make([]float32, testFeatures), 1, testFeatures)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_Infer_ContextTimeout(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := session.Infer(ctx, make([]float32, testFeatures), 1, testFeatures)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession_Close_Idempotent(t *testing.T) {
	session := newTestSession(t)

	assert.NoError(t, session.Close())
	assert.NoError(t, session.Close())
}

func TestSession_Infer_AfterClose(t *testing.T) {
	session := newTestSession(t)
	require.NoError(t, session.Close())

	_, err := session.Infer(context.Background(), make([]float32, testFeatures), 1, testFeatures)
	assert.Error(t, err)
}

// isORTUnavailableError checks if the error indicates ONNX runtime is not available.
func isORTUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "onnxruntime") ||
		strings.Contains(errStr, "shared library") ||
		strings.Contains(errStr, "dylib") ||
		strings.Contains(errStr, ".so") ||
		strings.Contains(errStr, ".dll") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "cannot open") ||
		strings.Contains(errStr, "initializing ONNX runtime")
}

func TestSetLibraryPath_ConcurrentSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.onnx")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o600))

	lib := LibraryPath()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetLibraryPath(lib)
			_, err := NewSession(path, DefaultIO())
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, lib, LibraryPath())
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"WARN", logrus.WarnLevel, false},
		{"error", logrus.ErrorLevel, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, slogLevel(logrus.TraceLevel))
	assert.Equal(t, slog.LevelDebug, slogLevel(logrus.DebugLevel))
	assert.Equal(t, slog.LevelInfo, slogLevel(logrus.InfoLevel))
	assert.Equal(t, slog.LevelWarn, slogLevel(logrus.WarnLevel))
	assert.Equal(t, slog.LevelError, slogLevel(logrus.ErrorLevel))
	assert.Equal(t, slog.LevelError, slogLevel(logrus.FatalLevel))
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logrus.WarnLevel, false)

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSlog_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := Slog(New(&buf, logrus.DebugLevel, true))

	log.Debug("model loaded", slog.String("path", "rf.onnx"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "model loaded", rec["msg"])
	assert.Equal(t, "rf.onnx", rec["path"])
}

func TestSlog_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Slog(New(&buf, logrus.InfoLevel, false))

	log.Debug("quiet")
	assert.Empty(t, buf.String())

	log.Info("loud")
	assert.Contains(t, buf.String(), "loud")
}

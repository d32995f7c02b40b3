// Package logging builds the CLI's logrus logger and the matching slog
// logger handed to the dreval library.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/sirupsen/logrus"
)

// ParseLevel accepts the logrus level names. An empty string means info.
func ParseLevel(s string) (logrus.Level, error) {
	if strings.TrimSpace(s) == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(s)
}

// New returns a logrus logger writing to w at level, as JSON when json is set.
func New(w io.Writer, level logrus.Level, json bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l
}

// Slog returns a slog logger with the same output, level and encoding as l.
func Slog(l *logrus.Logger) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(l.GetLevel())}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); ok {
		return slog.New(slog.NewJSONHandler(l.Out, opts))
	}
	return slog.New(slog.NewTextHandler(l.Out, opts))
}

func slogLevel(level logrus.Level) slog.Level {
	switch {
	case level >= logrus.DebugLevel:
		return slog.LevelDebug
	case level == logrus.InfoLevel:
		return slog.LevelInfo
	case level == logrus.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

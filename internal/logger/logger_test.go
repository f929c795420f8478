package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/yieldcast/internal/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for line := range strings.Lines(buf.String()) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level logger.LogLevel
		want  []string
	}{
		{name: "trace", level: logger.LogLevelTrace, want: []string{"t", "d", "i", "w", "e"}},
		{name: "debug", level: logger.LogLevelDebug, want: []string{"d", "i", "w", "e"}},
		{name: "info", level: logger.LogLevelInfo, want: []string{"i", "w", "e"}},
		{name: "warn", level: logger.LogLevelWarn, want: []string{"w", "e"}},
		{name: "error", level: logger.LogLevelError, want: []string{"e"}},
		{name: "unknown falls back to info", level: "verbose", want: []string{"i", "w", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			l := logger.NewSlogLogger(buf, tt.level, time.UTC)
			l.Trace("t")
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			var got []string
			for _, entry := range decodeLines(t, buf) {
				got = append(got, entry["msg"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldsAndModules(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	l := logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC).
		Module("estimator").
		Module("forest").
		With(logger.String("model.name", "random_forest"))

	l.Info("fitted",
		logger.Int("data.samples", 1000),
		logger.Float64("score", 0.123456),
		logger.Duration("perf.duration", 1500*time.Millisecond),
		logger.Bool("cached", false),
		logger.Error(os.ErrNotExist))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "estimator.forest", e["module"])
	assert.Equal(t, "random_forest", e["model.name"])
	assert.InDelta(t, 1000, e["data.samples"], 0)
	assert.InDelta(t, 0.123, e["score"], 1e-9)
	assert.Equal(t, "1.5s", e["perf.duration"])
	assert.Equal(t, false, e["cached"])
	assert.Equal(t, os.ErrNotExist.Error(), e["error"])
}

func TestWithDoesNotLeakFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	base := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)
	_ = base.With(logger.String("crop", "Rice"))
	base.Info("plain")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "crop")
}

func TestWithContextAddsTraceID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	l := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)

	l.WithContext(logger.WithTraceID(context.Background(), "abc-123")).Info("traced")
	l.WithContext(context.Background()).Info("untraced")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0]["trace_id"])
	assert.NotContains(t, entries[1], "trace_id")
}

func TestExplicitLogLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	l := logger.NewSlogLogger(buf, logger.LogLevelWarn, time.UTC)
	l.Log(logger.LogLevelInfo, "dropped")
	l.Log(logger.LogLevelError, "kept")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "ERROR", entries[0]["level"])
}

func TestCentralLoggerFileOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "yieldcast.log")
	cl, err := logger.NewCentralLogger(&logger.LoggingConfig{
		DefaultLevel: "debug",
		Timezone:     "UTC",
		Console:      &logger.ConsoleOutput{Enabled: false},
		FileOutput:   &logger.FileOutput{Enabled: true, Path: path, Level: "debug"},
		ModuleLevels: map[string]string{"synth": "error"},
	})
	require.NoError(t, err)

	cl.Module("crops").Debug("catalog loaded", logger.Int("crops", 10))
	cl.Module("synth").Info("suppressed by module level")
	require.NoError(t, cl.Flush())
	require.NoError(t, cl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := decodeLines(t, bytes.NewBuffer(data))
	require.Len(t, entries, 1)
	assert.Equal(t, "crops", entries[0]["module"])
	assert.Equal(t, "catalog loaded", entries[0]["msg"])
	assert.Contains(t, entries[0]["time"], "Z")
}

func TestCentralLoggerRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := logger.NewCentralLogger(nil)
	require.Error(t, err)

	_, err = logger.NewCentralLogger(&logger.LoggingConfig{Timezone: "Mars/Olympus_Mons"})
	require.Error(t, err)
}

func TestBufferedFileWriterCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.log")
	w, err := logger.NewBufferedFileWriter(path, logger.WithBufferSize(16), logger.WithFlushInterval(time.Hour))
	require.NoError(t, err)

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late\n"))
	require.ErrorIs(t, err, logger.ErrWriterClosed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

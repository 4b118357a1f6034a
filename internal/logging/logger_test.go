package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureWritesJSON(t *testing.T) {
	t.Cleanup(DisableLogging)

	var buf bytes.Buffer
	Configure(LevelDebug, &buf)

	Info("watching directory", "dir", "/tmp/proj")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "watching directory", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "/tmp/proj", entry["dir"])
}

func TestLevelFiltering(t *testing.T) {
	t.Cleanup(DisableLogging)

	var buf bytes.Buffer
	Configure(LevelWarn, &buf)

	Debug("dropped")
	Info("dropped too")
	Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestCustomLevels(t *testing.T) {
	t.Cleanup(DisableLogging)

	var buf bytes.Buffer
	Configure(LevelTrace, &buf)

	Trace("fine grained")
	Notice("worth noting")

	out := buf.String()
	assert.Contains(t, out, "fine grained")
	assert.Contains(t, out, "worth noting")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"notice", LevelNotice},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(&buf, slog.LevelInfo)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))

	l := slog.New(h)
	l.Info("batch processed", "events", 3)

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "batch processed")
	assert.Contains(t, out, "events=3")
}

func TestConsoleHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewConsoleHandler(&buf, slog.LevelDebug))

	l.WithGroup("watcher").With("dir", "/tmp").Debug("started")

	assert.Contains(t, buf.String(), "watcher.dir=/tmp")
}

func TestLevelNames(t *testing.T) {
	assert.Equal(t, "TRC", levelName(SlogLevelTrace))
	assert.Equal(t, "DBG", levelName(slog.LevelDebug))
	assert.Equal(t, "INF", levelName(slog.LevelInfo))
	assert.Equal(t, "NTC", levelName(SlogLevelNotice))
	assert.Equal(t, "WRN", levelName(slog.LevelWarn))
	assert.Equal(t, "ERR", levelName(slog.LevelError))
}

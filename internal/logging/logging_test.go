package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/LeJamon/goRadixOracle/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "info", Format: "json"}, Overrides{})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("transaction settled", "intent_hash", "abc", "attempts", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "transaction settled", entry["msg"])
	assert.Equal(t, "abc", entry["intent_hash"])
	assert.Equal(t, float64(3), entry["attempts"])
}

func TestNewOverrides(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "info", Format: "text"}, Overrides{Verbose: true})
	require.NoError(t, err)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")

	buf.Reset()
	logger, err = New(&buf, config.LogConfig{Level: "debug", Format: "text"}, Overrides{Quiet: true})
	require.NoError(t, err)
	logger.Warn("hidden")
	assert.Empty(t, buf.String())
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, config.LogConfig{Format: "xml"}, Overrides{})
	assert.Error(t, err)
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(Options{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown", "entry", "tasks-1-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "tasks-1-1", line["entry"])

	// Уровень меняется без пересоздания логгера
	buf.Reset()
	require.NoError(t, logger.SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, logger.Level())
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	assert.Error(t, logger.SetLevel("nope"))
	assert.NoError(t, logger.Close())
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "info", Format: "xml"})
	assert.Error(t, err)

	_, err = New(Options{Level: "verbose"})
	assert.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashsync.log")

	logger, err := New(Options{Level: "info", Format: "text", File: path})
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

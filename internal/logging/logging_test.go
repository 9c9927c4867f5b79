package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.log")
	logger, err := New("warn", path, false)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "shown")
	assert.NotContains(t, string(b), "hidden")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	logger, err := New("error", filepath.Join(t.TempDir(), "x.log"), true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewTo_Writer(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewTo(&buf, "info", false)
	require.NoError(t, err)
	logger.Debug("quiet")
	logger.Info("loud")
	assert.Contains(t, buf.String(), "loud")
	assert.NotContains(t, buf.String(), "quiet")

	_, err = NewTo(&buf, "nope", false)
	assert.Error(t, err)
}

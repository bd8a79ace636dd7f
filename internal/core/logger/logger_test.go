package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/core/config"
)

func TestNewWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := New(config.Log{
		Level:  "info",
		JSON:   true,
		Rotate: config.Rotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("hello")
	l.Debug("hidden")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.NotContains(t, string(b), "hidden")
}

func TestNewFallsBackToInfo(t *testing.T) {
	l, cleanup := New(config.Log{Level: "bogus"})
	defer cleanup()
	assert.False(t, l.Core().Enabled(-1))
	assert.True(t, l.Core().Enabled(0))
}

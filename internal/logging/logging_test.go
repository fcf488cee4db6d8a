package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger, err := New("info", "console")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("chatty", "console")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestNewFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")

	logger, closeFn, err := NewFile("debug", "json", path)
	require.NoError(t, err)
	logger.Info("analysis started", zap.String("provider", "mock"))
	logger.Debug("detail")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "analysis started", entry["msg"])
	assert.Equal(t, "mock", entry["provider"])
}

func TestNewFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")
	for i := 0; i < 2; i++ {
		logger, closeFn, err := NewFile("info", "console", path)
		require.NoError(t, err)
		logger.Warn("run")
		require.NoError(t, closeFn())
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "run"))
}

func TestNewFile_EmptyPathIsNop(t *testing.T) {
	logger, closeFn, err := NewFile("info", "console", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
	assert.NoError(t, closeFn())
}

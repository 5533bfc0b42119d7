package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestNew(t *testing.T) {
	t.Run("creates logger for stdout output", func(t *testing.T) {
		logger, err := New(Config{Level: LevelDebug, Format: FormatText, Output: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("creates logger with JSON format", func(t *testing.T) {
		logger, err := New(Config{Level: LevelInfo, Format: FormatJSON, Output: "stderr"})
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("falls back to info on unknown level", func(t *testing.T) {
		logger, err := New(Config{Level: "bogus", Format: FormatText, Output: "stderr"})
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("creates log file when output is a path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "netsweep.log")
		logger, err := New(Config{Level: LevelInfo, Format: FormatJSON, Output: path})
		require.NoError(t, err)

		logger.Info("sweep started", "hosts", 4)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(data, &record))
		assert.Equal(t, "sweep started", record["msg"])
		assert.Equal(t, float64(4), record["hosts"])
	})
}

func TestFieldHelpers(t *testing.T) {
	logger := NewDefault()

	assert.NotNil(t, logger.WithComponent("scheduler"))
	assert.NotNil(t, logger.WithSweepID("run-1"))
	assert.NotNil(t, logger.WithHost("10.0.0.1"))
	assert.NotNil(t, logger.WithFields("phase", "ping"))
}

func TestSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	replacement := NewDefault()
	SetDefault(replacement)
	assert.Same(t, replacement, Default())
}

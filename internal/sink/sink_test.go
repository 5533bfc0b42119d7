package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmartell/netsweep/internal/errors"
)

func TestFileSink(t *testing.T) {
	t.Run("appends lines in order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.txt")
		s, err := NewFileSink(path)
		require.NoError(t, err)

		require.NoError(t, s.Append("10.0.0.1: UP"))
		require.NoError(t, s.Append("10.0.0.2: DOWN"))
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1: UP\n10.0.0.2: DOWN\n", string(data))
	})

	t.Run("close flushes buffered lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.txt")
		s, err := NewFileSink(path)
		require.NoError(t, err)

		require.NoError(t, s.Append("line"))
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "line\n", string(data))
	})

	t.Run("close is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.txt")
		s, err := NewFileSink(path)
		require.NoError(t, err)

		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
	})

	t.Run("append after close fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.txt")
		s, err := NewFileSink(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		err = s.Append("late")
		require.Error(t, err)
		assert.Equal(t, errors.CodeSinkAppend, errors.GetCode(err))
	})

	t.Run("unwritable path reports a sink error", func(t *testing.T) {
		_, err := NewFileSink(filepath.Join(t.TempDir(), "missing", "results.txt"))
		require.Error(t, err)
		assert.Equal(t, errors.CodeSinkOpen, errors.GetCode(err))
	})
}

package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepError(t *testing.T) {
	t.Run("formats message with target", func(t *testing.T) {
		err := NewSweepErrorWithTarget(CodeTargetInvalid, "bad spec", "10.0.0.0/99")
		assert.Equal(t, "[TARGET_INVALID] bad spec (target: 10.0.0.0/99)", err.Error())
	})

	t.Run("formats message without target", func(t *testing.T) {
		err := NewSweepError(CodeNoPorts, "empty port set")
		assert.Equal(t, "[NO_PORTS] empty port set", err.Error())
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := stderrors.New("boom")
		err := WrapSweepError(CodeSinkOpen, "cannot open sink", cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("carries context values", func(t *testing.T) {
		err := NewSweepError(CodeBatchTooLarge, "too big").
			WithContext("hosts", 12).
			WithContext("ports", 100)
		require.NotNil(t, err.Context)
		assert.Equal(t, 12, err.Context["hosts"])
		assert.Equal(t, 100, err.Context["ports"])
	})
}

func TestConfigError(t *testing.T) {
	err := NewConfigFieldError(CodeValidation, "out of range", "concurrency", 9000)
	assert.Equal(t, "[VALIDATION] out of range (field: concurrency)", err.Error())
	assert.Equal(t, 9000, err.Value)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		input    bool
		capacity bool
		code     ErrorCode
	}{
		{"no targets", ErrNoTargets("x"), true, false, CodeNoTargets},
		{"no ports", ErrNoPorts(""), true, false, CodeNoPorts},
		{"batch too large", ErrBatchTooLarge(100, 10, 500), false, true, CodeBatchTooLarge},
		{"truncated", NewSweepError(CodeHostsTruncated, "capped"), false, true, CodeHostsTruncated},
		{"config", NewConfigError(CodeConfiguration, "bad"), false, false, CodeConfiguration},
		{"plain error", stderrors.New("plain"), false, false, CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, IsInputError(tt.err))
			assert.Equal(t, tt.capacity, IsCapacityError(tt.err))
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.True(t, IsCode(tt.err, tt.code) || tt.code == CodeUnknown)
		})
	}
}

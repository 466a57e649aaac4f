package bedrockai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStreamError(ErrorThrottling, "upstream failed", cause)

	assert.Equal(t, ErrorThrottling, err.Category())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "upstream failed")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		category  ErrorCategory
		retryable bool
	}{
		{ErrorThrottling, true},
		{ErrorServiceUnavailable, true},
		{ErrorInternalServer, true},
		{ErrorValidation, false},
		{ErrorStream, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := NewStreamError(tt.category, "boom", nil)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestIsRetryableNonCategorized(t *testing.T) {
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestCategoryOf(t *testing.T) {
	wrapped := fmt.Errorf("request: %w", NewStreamError(ErrorThrottling, "slow down", nil))
	assert.Equal(t, ErrorThrottling, CategoryOf(wrapped))
	assert.Equal(t, ErrorCategory(""), CategoryOf(errors.New("plain")))
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("temperature %v out of range", 1.5)

	var cfg *ConfigError
	assert.ErrorAs(t, err, &cfg)
	assert.Contains(t, err.Error(), "temperature 1.5 out of range")
}

func TestIterationLimitError(t *testing.T) {
	err := &IterationLimitError{Limit: 20}
	assert.Contains(t, err.Error(), "20")
}

package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/xpand-io/bedrockai"
)

// WrapError maps SDK failures into the categorized error taxonomy. Non-API
// failures (network, context cancellation) become generic stream errors.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return ai.NewStreamError(ai.ErrorStream, "stream request failed", err)
	}

	return ai.NewStreamError(categorize(apiErr.StatusCode), "model request failed", err)
}

func categorize(statusCode int) ai.ErrorCategory {
	switch {
	case statusCode == 429:
		return ai.ErrorThrottling
	case statusCode == 400 || statusCode == 422:
		return ai.ErrorValidation
	case statusCode == 503 || statusCode == 529:
		return ai.ErrorServiceUnavailable
	case statusCode >= 500:
		return ai.ErrorInternalServer
	default:
		return ai.ErrorStream
	}
}

package http_test

import (
	"errors"
	"fmt"
	"testing"

	llmhttp "reviewd/internal/adapter/llm/http"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errType llmhttp.ErrorType
		want    string
	}{
		{llmhttp.ErrTypeAuthentication, "authentication error"},
		{llmhttp.ErrTypeRateLimit, "rate limit exceeded"},
		{llmhttp.ErrTypeServiceUnavailable, "service unavailable"},
		{llmhttp.ErrTypeInvalidRequest, "invalid request"},
		{llmhttp.ErrTypeTimeout, "timeout"},
		{llmhttp.ErrTypeContentFiltered, "content filtered"},
		{llmhttp.ErrTypeUnknown, "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.errType.String())
		})
	}
}

func TestError_Error(t *testing.T) {
	err := llmhttp.NewRateLimitError("github", "slow down")
	assert.Equal(t, "github: rate limit exceeded: slow down (status: 429)", err.Error())
}

func TestError_Is(t *testing.T) {
	rateLimited := llmhttp.NewRateLimitError("github", "throttled")

	assert.True(t, errors.Is(rateLimited, &llmhttp.Error{Type: llmhttp.ErrTypeRateLimit}))
	assert.False(t, errors.Is(rateLimited, &llmhttp.Error{Type: llmhttp.ErrTypeTimeout}))

	wrapped := fmt.Errorf("fetch diff: %w", rateLimited)
	assert.True(t, errors.Is(wrapped, &llmhttp.Error{Type: llmhttp.ErrTypeRateLimit}))
}

func TestErrorConstructors_Retryability(t *testing.T) {
	assert.True(t, llmhttp.NewRateLimitError("p", "m").IsRetryable())
	assert.True(t, llmhttp.NewServiceUnavailableError("p", "m").IsRetryable())
	assert.True(t, llmhttp.NewTimeoutError("p", "m").IsRetryable())
	assert.False(t, llmhttp.NewAuthenticationError("p", "m").IsRetryable())
	assert.False(t, llmhttp.NewInvalidRequestError("p", "m").IsRetryable())
	assert.False(t, llmhttp.NewContentFilteredError("p", "m").IsRetryable())
}

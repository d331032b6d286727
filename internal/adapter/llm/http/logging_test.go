package http_test

import (
	"strings"
	"testing"

	llmhttp "reviewd/internal/adapter/llm/http"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLogging(t *testing.T) {
	short := "small response"
	assert.Equal(t, short, llmhttp.TruncateForLogging(short))

	long := strings.Repeat("x", llmhttp.MaxLoggedResponseLength+50)
	truncated := llmhttp.TruncateForLogging(long)
	assert.Contains(t, truncated, "[truncated")
	assert.Less(t, len(truncated), len(long))
}

func TestRedactURLSecrets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "gemini key parameter",
			input: "https://generativelanguage.googleapis.com/v1beta/models/m:generateContent?key=secret123",
			want:  "https://generativelanguage.googleapis.com/v1beta/models/m:generateContent?key=[REDACTED]",
		},
		{
			name:  "token parameter with trailing query",
			input: "https://example.com/api?token=abc&scope=repo",
			want:  "https://example.com/api?token=[REDACTED]&scope=repo",
		},
		{
			name:  "no secrets untouched",
			input: "https://api.github.com/repos/o/r/pulls/1",
			want:  "https://api.github.com/repos/o/r/pulls/1",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llmhttp.RedactURLSecrets(tt.input))
		})
	}
}

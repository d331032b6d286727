package http_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	llmhttp "reviewd/internal/adapter/llm/http"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, llmhttp.LogLevelDebug, llmhttp.ParseLogLevel("debug"))
	assert.Equal(t, llmhttp.LogLevelError, llmhttp.ParseLogLevel("ERROR"))
	assert.Equal(t, llmhttp.LogLevelInfo, llmhttp.ParseLogLevel("info"))
	assert.Equal(t, llmhttp.LogLevelInfo, llmhttp.ParseLogLevel("unknown"))
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, llmhttp.LogFormatJSON, llmhttp.ParseLogFormat("json"))
	assert.Equal(t, llmhttp.LogFormatHuman, llmhttp.ParseLogFormat("human"))
	assert.Equal(t, llmhttp.LogFormatHuman, llmhttp.ParseLogFormat(""))
}

func TestDefaultLogger_LogRetry_Human(t *testing.T) {
	buf := captureLog(t)
	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)

	logger.LogRetry(context.Background(), llmhttp.RetryLog{
		Provider:   "github",
		Attempt:    2,
		MaxRetries: 3,
		StatusCode: 503,
		Delay:      2 * time.Second,
		Err:        errors.New("service unavailable"),
	})

	out := buf.String()
	assert.Contains(t, out, "github: attempt 2/4 failed")
	assert.Contains(t, out, "status=503")
	assert.Contains(t, out, "retrying in 2s")
}

func TestDefaultLogger_LogRetry_JSON(t *testing.T) {
	buf := captureLog(t)
	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatJSON, true)

	logger.LogRetry(context.Background(), llmhttp.RetryLog{
		Provider:   "github",
		Attempt:    1,
		MaxRetries: 3,
		StatusCode: 429,
		Delay:      1500 * time.Millisecond,
		Err:        errors.New("throttled"),
	})

	out := buf.String()
	assert.Contains(t, out, `"type":"retry"`)
	assert.Contains(t, out, `"status_code":429`)
	assert.Contains(t, out, `"delay_ms":1500`)
}

func TestDefaultLogger_LogInfoAndWarning(t *testing.T) {
	buf := captureLog(t)
	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)

	logger.LogInfo(context.Background(), "workflow finished", map[string]interface{}{
		"runID": "run-1",
		"repo":  "octocat/hello",
	})
	logger.LogWarning(context.Background(), "delivery slow", map[string]interface{}{
		"attempts": 3,
	})

	out := buf.String()
	assert.Contains(t, out, "[INFO] workflow finished repo=octocat/hello runID=run-1")
	assert.Contains(t, out, "[WARN] delivery slow attempts=3")
}

func TestDefaultLogger_LevelFiltersRetry(t *testing.T) {
	buf := captureLog(t)
	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelError, llmhttp.LogFormatHuman, true)

	logger.LogRetry(context.Background(), llmhttp.RetryLog{Provider: "github", Attempt: 1})
	logger.LogInfo(context.Background(), "suppressed", nil)

	assert.Empty(t, buf.String())
}

func TestDefaultLogger_RedactAPIKey(t *testing.T) {
	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)

	assert.Equal(t, "[REDACTED-6789]", logger.RedactAPIKey("sk-123456789"))
	assert.Equal(t, "[REDACTED]", logger.RedactAPIKey("abcd"))

	logger.SetRedaction(false)
	assert.Equal(t, "sk-123456789", logger.RedactAPIKey("sk-123456789"))
}

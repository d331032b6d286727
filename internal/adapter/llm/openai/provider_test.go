package openai_test

import (
	"context"
	"errors"
	"testing"

	"reviewd/internal/adapter/llm/openai"
	"reviewd/internal/usecase/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	text   string
	err    error
	system string
	prompt string
}

func (s *stubClient) Call(ctx context.Context, system, prompt string, options openai.CallOptions) (*openai.APIResponse, error) {
	s.system = system
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return &openai.APIResponse{Text: s.text}, nil
}

func TestProvider_GenerateText(t *testing.T) {
	client := &stubClient{text: "final comment"}
	provider := openai.NewProvider(client)

	out, err := provider.GenerateText(context.Background(), workflow.GenerateRequest{
		System: "sys",
		Prompt: "user",
	})
	require.NoError(t, err)

	assert.Equal(t, "final comment", out)
	assert.Equal(t, "sys", client.system)
	assert.Equal(t, "user", client.prompt)
}

func TestProvider_GenerateReview(t *testing.T) {
	client := &stubClient{text: `{"has_bugs": false, "issues": [], "summary": "all clear"}`}
	provider := openai.NewProvider(client)

	result, err := provider.GenerateReview(context.Background(), workflow.GenerateRequest{Prompt: "review"})
	require.NoError(t, err)

	assert.False(t, result.HasBugs)
	assert.Equal(t, "all clear", result.Summary)
}

func TestProvider_ClientErrorPropagates(t *testing.T) {
	provider := openai.NewProvider(&stubClient{err: errors.New("down")})
	_, err := provider.GenerateReview(context.Background(), workflow.GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
}

func TestProvider_NilClient(t *testing.T) {
	provider := openai.NewProvider(nil)
	_, err := provider.GenerateText(context.Background(), workflow.GenerateRequest{Prompt: "p"})
	assert.Error(t, err)
}

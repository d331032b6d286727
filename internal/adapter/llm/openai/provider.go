package openai

import (
	"context"
	"fmt"

	llmhttp "reviewd/internal/adapter/llm/http"
	"reviewd/internal/domain"
	"reviewd/internal/usecase/workflow"
)

const providerName = "openai"

// Client abstracts the OpenAI HTTP client behaviour we need.
type Client interface {
	Call(ctx context.Context, system, prompt string, options CallOptions) (*APIResponse, error)
}

// Provider implements the workflow Generator port on top of OpenAI.
type Provider struct {
	client Client
}

// NewProvider constructs a Provider around the supplied client.
func NewProvider(client Client) *Provider {
	return &Provider{client: client}
}

// GenerateReview sends the review prompt and parses the structured result.
func (p *Provider) GenerateReview(ctx context.Context, req workflow.GenerateRequest) (domain.ReviewResult, error) {
	text, err := p.GenerateText(ctx, req)
	if err != nil {
		return domain.ReviewResult{}, err
	}

	result, err := llmhttp.ParseReviewResult(text)
	if err != nil {
		return domain.ReviewResult{}, fmt.Errorf("openai: %w", err)
	}
	return result, nil
}

// GenerateText sends the prompt and returns the raw model output.
func (p *Provider) GenerateText(ctx context.Context, req workflow.GenerateRequest) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("openai client missing")
	}

	resp, err := p.client.Call(ctx, req.System, req.Prompt, CallOptions{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	return resp.Text, nil
}

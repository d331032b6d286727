// Package static provides a canned Generator for smoke tests and local
// development without API keys.
package static

import (
	"context"

	"reviewd/internal/domain"
	"reviewd/internal/usecase/workflow"
)

// Provider implements the workflow Generator port with fixed output.
type Provider struct {
	result domain.ReviewResult
	text   string
}

// NewProvider constructs a static Provider that reports a clean review.
func NewProvider() *Provider {
	return &Provider{
		result: domain.ReviewResult{
			HasBugs: false,
			Issues:  []domain.ReviewIssue{},
			Summary: "Static review: no analysis performed.",
		},
		text: "This is a static response from a mock provider.",
	}
}

// WithResult overrides the canned review result.
func (p *Provider) WithResult(result domain.ReviewResult) *Provider {
	p.result = result
	return p
}

// WithText overrides the canned free-text output.
func (p *Provider) WithText(text string) *Provider {
	p.text = text
	return p
}

// GenerateReview returns the canned review result.
func (p *Provider) GenerateReview(ctx context.Context, req workflow.GenerateRequest) (domain.ReviewResult, error) {
	return p.result, nil
}

// GenerateText returns the canned text.
func (p *Provider) GenerateText(ctx context.Context, req workflow.GenerateRequest) (string, error) {
	return p.text, nil
}

package domain_test

import (
	"testing"

	"reviewd/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Valid(t *testing.T) {
	tests := []struct {
		severity domain.Severity
		want     bool
	}{
		{domain.SeverityLow, true},
		{domain.SeverityMedium, true},
		{domain.SeverityHigh, true},
		{domain.SeverityCritical, true},
		{domain.Severity("blocker"), false},
		{domain.Severity(""), false},
		{domain.Severity("LOW"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.severity.Valid())
		})
	}
}

func TestSeverity_AtLeast(t *testing.T) {
	assert.True(t, domain.SeverityCritical.AtLeast(domain.SeverityMedium))
	assert.True(t, domain.SeverityMedium.AtLeast(domain.SeverityMedium))
	assert.False(t, domain.SeverityLow.AtLeast(domain.SeverityMedium))

	// Unknown severities rank below every known level.
	assert.False(t, domain.Severity("bogus").AtLeast(domain.SeverityLow))
}

func TestReviewIssue_Validate(t *testing.T) {
	valid := domain.ReviewIssue{
		FilePath:    "internal/server/server.go",
		LineNumber:  42,
		Description: "nil map write",
		Severity:    domain.SeverityHigh,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*domain.ReviewIssue)
	}{
		{"empty file path", func(i *domain.ReviewIssue) { i.FilePath = "" }},
		{"zero line number", func(i *domain.ReviewIssue) { i.LineNumber = 0 }},
		{"negative line number", func(i *domain.ReviewIssue) { i.LineNumber = -3 }},
		{"empty description", func(i *domain.ReviewIssue) { i.Description = "" }},
		{"unknown severity", func(i *domain.ReviewIssue) { i.Severity = "urgent" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := valid
			tt.mutate(&issue)
			assert.Error(t, issue.Validate())
		})
	}
}

func TestReviewResult_Validate(t *testing.T) {
	t.Run("summary required", func(t *testing.T) {
		result := domain.ReviewResult{HasBugs: false}
		assert.Error(t, result.Validate())
	})

	t.Run("empty issues under has_bugs is valid", func(t *testing.T) {
		// A correct generator pairs has_bugs with at least one issue, but
		// the schema itself tolerates the empty list.
		result := domain.ReviewResult{HasBugs: true, Summary: "something is off"}
		assert.NoError(t, result.Validate())
	})

	t.Run("advisory issues without has_bugs are valid", func(t *testing.T) {
		result := domain.ReviewResult{
			HasBugs: false,
			Summary: "minor nits only",
			Issues: []domain.ReviewIssue{
				{FilePath: "a.go", LineNumber: 1, Description: "nit", Severity: domain.SeverityLow},
			},
		}
		assert.NoError(t, result.Validate())
	})

	t.Run("invalid issue propagates", func(t *testing.T) {
		result := domain.ReviewResult{
			HasBugs: true,
			Summary: "broken",
			Issues: []domain.ReviewIssue{
				{FilePath: "a.go", LineNumber: 0, Description: "bad line", Severity: domain.SeverityHigh},
			},
		}
		err := result.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "issue 0")
	})
}

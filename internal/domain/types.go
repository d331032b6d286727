package domain

import "fmt"

// Severity classifies how serious a review issue is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is one of the known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// severityRank orders severities from low (0) to critical (3).
// Unknown severities rank below low.
func severityRank(s Severity) int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return severityRank(s) >= severityRank(min)
}

// ReviewIssue is a single problem the reviewer found in a diff.
// Issues are immutable once produced.
type ReviewIssue struct {
	FilePath    string   `json:"file_path"`
	LineNumber  int      `json:"line_number"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Validate checks the issue against the structured-output schema.
func (i ReviewIssue) Validate() error {
	if i.FilePath == "" {
		return fmt.Errorf("issue file_path is empty")
	}
	if i.LineNumber < 1 {
		return fmt.Errorf("issue line_number %d is below 1", i.LineNumber)
	}
	if i.Description == "" {
		return fmt.Errorf("issue description is empty")
	}
	if !i.Severity.Valid() {
		return fmt.Errorf("issue severity %q is not one of low/medium/high/critical", i.Severity)
	}
	return nil
}

// ReviewResult is the structured output of the review stage.
//
// HasBugs false does not imply Issues is empty: advisory issues may be
// reported without blocking. The inverse also holds; an empty Issues list
// under HasBugs true must be tolerated downstream.
type ReviewResult struct {
	HasBugs bool          `json:"has_bugs"`
	Issues  []ReviewIssue `json:"issues"`
	Summary string        `json:"summary"`
}

// Validate checks the result against the structured-output schema.
func (r ReviewResult) Validate() error {
	if r.Summary == "" {
		return fmt.Errorf("review summary is empty")
	}
	for idx, issue := range r.Issues {
		if err := issue.Validate(); err != nil {
			return fmt.Errorf("issue %d: %w", idx, err)
		}
	}
	return nil
}

// WorkflowState is the mutable record threaded through one review run.
// It is created per accepted pull-request event, owned by exactly one
// goroutine, and discarded when the run finishes. Nothing persists it.
type WorkflowState struct {
	// RunID correlates log lines across one run.
	RunID string

	// Repo is the "owner/name" repository identifier.
	Repo string

	// Number is the pull request number.
	Number int

	// Diff is the raw unified diff fetched from the hosting platform.
	Diff string

	// ReviewResult is set by the review stage; nil until then.
	ReviewResult *ReviewResult

	// PatchText is set by the patch stage; empty when the stage is skipped.
	PatchText string

	// FinalComment is set by the commit stage after delivery succeeds.
	FinalComment string
}

package workflow

import (
	"fmt"
	"strings"

	"reviewd/internal/domain"
)

// System prompts for the three stages. The reviewer prompt pins the JSON
// schema so providers without native structured output can still be parsed.
const (
	reviewerSystemPrompt = `You are a strict senior software engineer reviewing a pull request. ` +
		`Focus on concurrency bugs, nil/null dereference risks, race conditions, ` +
		`resource leaks, and business logic vulnerabilities. Only report actionable issues. ` +
		`Respond with a single JSON object and nothing else, using this schema: ` +
		`{"has_bugs": boolean, "issues": [{"file_path": string, "line_number": integer >= 1, ` +
		`"description": string, "severity": "low"|"medium"|"high"|"critical"}], "summary": string}. ` +
		`Set has_bugs to true only when at least one issue of severity medium or above exists.`

	patcherSystemPrompt = `You are a principal engineer. Based on the review issues, produce ` +
		`concrete patch guidance or code snippets that fix the bugs. Keep the output concise ` +
		`and markdown-friendly.`

	committerSystemPrompt = `You are a friendly code review assistant. Compose a pull request ` +
		`comment in markdown with a short summary, the issue list, and suggested fix snippets.`
)

// PatchPlaceholder stands in for patch text when the patch stage was skipped
// or produced nothing, so the commit prompt never interpolates an empty slot.
const PatchPlaceholder = "_No patch proposal available._"

// BuildReviewPrompt renders the review-stage user payload.
func BuildReviewPrompt(diff string) string {
	var b strings.Builder
	b.WriteString("Review the following pull request diff:\n\n")
	b.WriteString("```diff\n")
	b.WriteString(diff)
	if !strings.HasSuffix(diff, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}

// BuildPatchPrompt renders the patch-stage user payload.
func BuildPatchPrompt(diff, reviewJSON string) string {
	return fmt.Sprintf(
		"PR diff:\n```diff\n%s\n```\n\nReview result:\n```json\n%s\n```\n\nReturn a patch proposal with code snippets.",
		strings.TrimRight(diff, "\n"), reviewJSON)
}

// BuildCommentPrompt renders the commit-stage user payload for the buggy
// path. The issue list is pre-rendered so the generated comment keeps the
// reviewer's locations even if the model paraphrases the JSON.
func BuildCommentPrompt(issues []domain.ReviewIssue, reviewJSON, patchText string) string {
	return fmt.Sprintf(
		"Review result JSON:\n```json\n%s\n```\n\nIssues:\n%s\nPatch proposal:\n%s\n\nProduce the final pull request review comment.",
		reviewJSON, RenderIssueList(issues), patchText)
}

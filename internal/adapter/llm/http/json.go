package http

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"reviewd/internal/domain"
)

var (
	// Compile regex once and reuse (thread-safe).
	// Matches from ```json (or ```) at the start to the LAST ``` in the
	// text (greedy), not the first.
	jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")
)

// ExtractJSONFromMarkdown extracts JSON from markdown code blocks.
//
// Supports both ```json and ``` code blocks. Uses greedy matching to extract
// content from the first opening backticks to the LAST closing backticks,
// which handles nested code blocks inside JSON string values, e.g. a
// description containing an inline ```go example.
//
// Assumption: models are instructed to return a single JSON code block. If
// multiple separate code blocks are present the greedy match spans them all,
// which may yield invalid JSON; the caller surfaces that as a parse error.
//
// Returns extracted JSON or original text if no code block found.
func ExtractJSONFromMarkdown(text string) string {
	matches := jsonBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	// No code block found, the text might already be raw JSON
	return strings.TrimSpace(text)
}

// ParseReviewResult parses model output into a validated review result.
// Handles both markdown-wrapped and raw JSON responses.
func ParseReviewResult(text string) (domain.ReviewResult, error) {
	jsonText := ExtractJSONFromMarkdown(text)

	var result domain.ReviewResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return domain.ReviewResult{}, fmt.Errorf("parse review JSON: %w", err)
	}

	if err := result.Validate(); err != nil {
		return domain.ReviewResult{}, fmt.Errorf("invalid review result: %w", err)
	}

	return result, nil
}

package workflow

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reviewd/internal/domain"
)

var severityTitle = cases.Title(language.English)

// ApprovalComment synthesizes the terminal comment for a clean review.
// It is deterministic and costs no generation call.
func ApprovalComment(summary string) string {
	var b strings.Builder
	b.WriteString("## PR Review Result\n\n")
	b.WriteString("LGTM ✅\n\n")
	b.WriteString(summary)
	b.WriteString("\n\nNo blocking issues found.")
	return b.String()
}

// RenderIssueList renders review issues as a markdown bullet list, one line
// per issue with a title-cased severity tag.
func RenderIssueList(issues []domain.ReviewIssue) string {
	if len(issues) == 0 {
		return "_No individual issues were listed._\n"
	}

	var b strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&b, "- **%s** `%s:%d`: %s\n",
			severityTitle.String(string(issue.Severity)),
			issue.FilePath, issue.LineNumber, issue.Description)
	}
	return b.String()
}

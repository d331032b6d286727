// Package diff parses the raw unified diff text returned by the hosting
// platform's pull-request API into per-file change statistics.
package diff

import (
	"strings"
)

// FileDiff captures the change stats for a single file in a diff.
type FileDiff struct {
	// Path is the new-side path of the file ("b/" prefix stripped).
	// For deleted files it falls back to the old-side path.
	Path      string
	Additions int
	Deletions int
	Hunks     int
	Deleted   bool
}

// Summary is the parsed form of a whole multi-file unified diff.
type Summary struct {
	Files []FileDiff
}

// Paths returns the changed file paths in diff order.
func (s Summary) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// TotalAdditions sums added lines across all files.
func (s Summary) TotalAdditions() int {
	total := 0
	for _, f := range s.Files {
		total += f.Additions
	}
	return total
}

// TotalDeletions sums deleted lines across all files.
func (s Summary) TotalDeletions() int {
	total := 0
	for _, f := range s.Files {
		total += f.Deletions
	}
	return total
}

// Contains reports whether path appears in the diff.
func (s Summary) Contains(path string) bool {
	for _, f := range s.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}

// Parse parses a multi-file unified diff. It tolerates malformed input by
// skipping what it cannot interpret; an empty diff yields an empty summary.
func Parse(raw string) Summary {
	var result Summary
	var current *FileDiff
	inHunk := false

	flush := func() {
		if current != nil && current.Path != "" {
			result.Files = append(result.Files, *current)
		}
		current = nil
		inHunk = false
	}

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			current = &FileDiff{Path: pathFromGitHeader(line)}

		case current == nil:
			// Preamble before the first file header.

		case strings.HasPrefix(line, "--- "):
			inHunk = false

		case strings.HasPrefix(line, "+++ "):
			// The new-side path is authoritative; /dev/null marks a deletion.
			target := strings.TrimPrefix(line, "+++ ")
			if target == "/dev/null" {
				current.Deleted = true
			} else if p := stripPathPrefix(target); p != "" {
				current.Path = p
			}
			inHunk = false

		case strings.HasPrefix(line, "@@"):
			current.Hunks++
			inHunk = true

		case !inHunk:
			// index lines, mode changes, binary markers

		case strings.HasPrefix(line, "+"):
			current.Additions++

		case strings.HasPrefix(line, "-"):
			current.Deletions++
		}
	}
	flush()

	return result
}

// pathFromGitHeader extracts the new-side path from a "diff --git a/x b/y"
// header. Paths with spaces are not disambiguated; the b/-prefixed tail wins.
func pathFromGitHeader(line string) string {
	rest := strings.TrimPrefix(line, "diff --git ")
	idx := strings.LastIndex(rest, " b/")
	if idx < 0 {
		return ""
	}
	return rest[idx+len(" b/"):]
}

// stripPathPrefix removes the conventional a/ or b/ prefix.
func stripPathPrefix(p string) string {
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		return p[2:]
	}
	return p
}

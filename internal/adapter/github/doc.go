// Package github is the HTTP adapter for the GitHub REST API: fetching
// pull-request diffs, posting issue comments, and verifying webhook
// signatures. All outbound calls share the retry engine from
// internal/adapter/llm/http.
package github

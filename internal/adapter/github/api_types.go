package github

// IssueCommentRequest is the JSON body for the comment-creation endpoint.
type IssueCommentRequest struct {
	Body string `json:"body"`
}

// IssueCommentResponse is the subset of the created-comment response we use.
type IssueCommentResponse struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// GitHubErrorResponse is GitHub's standard error body.
type GitHubErrorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors"`
	DocumentationURL string `json:"documentation_url"`
}

// PullRequestEvent is the subset of the pull_request webhook payload the
// service consumes.
type PullRequestEvent struct {
	Action     string `json:"action"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

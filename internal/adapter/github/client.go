package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	llmhttp "reviewd/internal/adapter/llm/http"
)

const (
	defaultBaseURL    = "https://api.github.com"
	defaultTimeout    = 30 * time.Second
	apiVersion        = "2022-11-28"
	userAgent         = "reviewd"
	acceptJSON        = "application/vnd.github+json"
	acceptDiff        = "application/vnd.github.v3.diff"
	defaultMaxRetries = 3
)

// Client is an HTTP client for the GitHub REST API endpoints the review
// service needs: pull-request diffs and issue comments.
//
// The client holds only immutable configuration after construction, so
// concurrent calls from independent review runs never contend on it. Every
// attempt builds a fresh *http.Request.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retryConf  llmhttp.RetryConfig
	logger     llmhttp.Logger
	metrics    llmhttp.Metrics
}

// NewClient creates a new GitHub API client with the given token.
// The token should be a personal access token or an installation token.
func NewClient(token string) *Client {
	retryConf := llmhttp.DefaultRetryConfig()
	retryConf.MaxRetries = defaultMaxRetries
	retryConf.Provider = providerName

	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  retryConf,
	}
}

// SetBaseURL sets a custom base URL (for testing and GitHub Enterprise).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the per-request HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRetryConfig replaces the retry tuning, keeping observability hooks wired.
func (c *Client) SetRetryConfig(conf llmhttp.RetryConfig) {
	conf.Provider = providerName
	conf.Logger = c.logger
	conf.Metrics = c.metrics
	c.retryConf = conf
}

// SetLogger wires structured logging for requests, errors, and retry decisions.
func (c *Client) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
	c.retryConf.Logger = logger
}

// SetMetrics wires the metrics sink.
func (c *Client) SetMetrics(metrics llmhttp.Metrics) {
	c.metrics = metrics
	c.retryConf.Metrics = metrics
}

// FetchDiff returns the raw unified diff for a pull request.
// repo is the "owner/name" identifier.
func (c *Client) FetchDiff(ctx context.Context, repo string, number int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d", c.baseURL, repo, number)

	body, _, err := c.do(ctx, http.MethodGet, url, acceptDiff, nil)
	if err != nil {
		return "", fmt.Errorf("fetch diff for %s#%d: %w", repo, number, err)
	}
	return string(body), nil
}

// PostComment creates an issue comment on a pull request. GitHub's comment
// endpoint lives under /issues because PR comments are issue comments.
func (c *Client) PostComment(ctx context.Context, repo string, number int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.baseURL, repo, number)

	payload, err := json.Marshal(IssueCommentRequest{Body: body})
	if err != nil {
		return fmt.Errorf("marshal comment body: %w", err)
	}

	respBody, _, err := c.do(ctx, http.MethodPost, url, acceptJSON, payload)
	if err != nil {
		return fmt.Errorf("post comment to %s#%d: %w", repo, number, err)
	}

	var created IssueCommentResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return fmt.Errorf("parse comment response: %w", err)
	}

	if c.logger != nil {
		c.logger.LogInfo(ctx, "comment posted", map[string]interface{}{
			"repo":      repo,
			"number":    number,
			"commentID": created.ID,
		})
	}
	return nil
}

// do executes one logical API call through the shared retry engine and
// returns the response body of the successful attempt.
func (c *Client) do(ctx context.Context, method, url, accept string, payload []byte) ([]byte, int, error) {
	start := time.Now()

	if c.logger != nil {
		c.logger.LogRequest(ctx, llmhttp.RequestLog{
			Provider:    providerName,
			Timestamp:   start,
			PromptChars: len(payload),
			APIKey:      c.token,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordRequest(providerName, "")
	}

	var (
		respBody   []byte
		statusCode int
	)

	err := llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, url, reader)
		if reqErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", accept)
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
		req.Header.Set("User-Agent", userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			// Timeouts and connection failures are retryable transport errors.
			return llmhttp.NewTimeoutError(providerName, callErr.Error())
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				return &llmhttp.Error{
					Type:       llmhttp.ErrTypeUnknown,
					Message:    fmt.Sprintf("HTTP %d (failed to read response: %v)", resp.StatusCode, readErr),
					StatusCode: resp.StatusCode,
					Retryable:  resp.StatusCode >= 500,
					Provider:   providerName,
				}
			}
			return MapHTTPError(resp.StatusCode, resp.Header, bodyBytes)
		}

		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return llmhttp.NewTimeoutError(providerName, fmt.Sprintf("read response body: %v", readErr))
		}
		respBody = bodyBytes
		return nil
	}, c.retryConf)

	duration := time.Since(start)

	if err != nil {
		c.observeError(ctx, err, duration)
		return nil, statusCode, err
	}

	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:   providerName,
			Timestamp:  time.Now(),
			Duration:   duration,
			StatusCode: statusCode,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordDuration(providerName, "", duration)
	}

	return respBody, statusCode, nil
}

func (c *Client) observeError(ctx context.Context, err error, duration time.Duration) {
	var httpErr *llmhttp.Error
	if !errors.As(err, &httpErr) {
		// Context cancellations and other plain errors still get recorded.
		httpErr = &llmhttp.Error{Type: llmhttp.ErrTypeUnknown, Message: err.Error(), Provider: providerName}
	}

	if c.logger != nil {
		c.logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:   providerName,
			Timestamp:  time.Now(),
			Duration:   duration,
			Error:      err,
			ErrorType:  httpErr.Type,
			StatusCode: httpErr.StatusCode,
			Retryable:  httpErr.Retryable,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordError(providerName, "", httpErr.Type)
	}
}

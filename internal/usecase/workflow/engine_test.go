package workflow_test

import (
	"context"
	"errors"
	"testing"

	"reviewd/internal/domain"
	"reviewd/internal/usecase/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records generation calls and returns canned results.
type fakeGenerator struct {
	reviewResult domain.ReviewResult
	reviewErr    error

	textResponses []string
	textErr       error

	reviewCalls int
	textCalls   int
	textPrompts []workflow.GenerateRequest
}

func (f *fakeGenerator) GenerateReview(ctx context.Context, req workflow.GenerateRequest) (domain.ReviewResult, error) {
	f.reviewCalls++
	if f.reviewErr != nil {
		return domain.ReviewResult{}, f.reviewErr
	}
	return f.reviewResult, nil
}

func (f *fakeGenerator) GenerateText(ctx context.Context, req workflow.GenerateRequest) (string, error) {
	f.textCalls++
	f.textPrompts = append(f.textPrompts, req)
	if f.textErr != nil {
		return "", f.textErr
	}
	if len(f.textResponses) >= f.textCalls {
		return f.textResponses[f.textCalls-1], nil
	}
	return "generated text", nil
}

// fakePoster records deliveries.
type fakePoster struct {
	err    error
	calls  int
	repo   string
	number int
	body   string
}

func (f *fakePoster) PostComment(ctx context.Context, repo string, number int, body string) error {
	f.calls++
	f.repo = repo
	f.number = number
	f.body = body
	return f.err
}

func newState() *domain.WorkflowState {
	return &domain.WorkflowState{
		RunID:  "run-1",
		Repo:   "octocat/hello",
		Number: 42,
		Diff:   "diff --git a/main.go b/main.go\n",
	}
}

func newEngine(t *testing.T, gen workflow.Generator, poster workflow.CommentPoster) *workflow.Engine {
	t.Helper()
	engine, err := workflow.NewEngine(workflow.EngineDeps{Generator: gen, Poster: poster})
	require.NoError(t, err)
	return engine
}

func TestNewEngine_RequiresDependencies(t *testing.T) {
	_, err := workflow.NewEngine(workflow.EngineDeps{Poster: &fakePoster{}})
	assert.Error(t, err)

	_, err = workflow.NewEngine(workflow.EngineDeps{Generator: &fakeGenerator{}})
	assert.Error(t, err)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "review", workflow.StageReview.String())
	assert.Equal(t, "patch", workflow.StagePatch.String())
	assert.Equal(t, "commit", workflow.StageCommit.String())
	assert.Equal(t, "done", workflow.StageDone.String())
}

func TestRun_CleanReviewSkipsPatchAndGeneration(t *testing.T) {
	gen := &fakeGenerator{
		reviewResult: domain.ReviewResult{HasBugs: false, Summary: "No issues"},
	}
	poster := &fakePoster{}
	state := newState()

	err := newEngine(t, gen, poster).Run(context.Background(), state)
	require.NoError(t, err)

	// Exactly one generation call across the whole run: the review itself.
	assert.Equal(t, 1, gen.reviewCalls)
	assert.Zero(t, gen.textCalls, "clean path must not invoke free-text generation")

	assert.Equal(t, 1, poster.calls)
	assert.Equal(t, "octocat/hello", poster.repo)
	assert.Equal(t, 42, poster.number)
	assert.Contains(t, poster.body, "LGTM")
	assert.Contains(t, poster.body, "No issues")

	assert.Empty(t, state.PatchText)
	assert.Equal(t, poster.body, state.FinalComment)
}

func TestRun_BuggyReviewRunsPatchThenCommit(t *testing.T) {
	gen := &fakeGenerator{
		reviewResult: domain.ReviewResult{
			HasBugs: true,
			Summary: "found a race",
			Issues: []domain.ReviewIssue{
				{FilePath: "srv.go", LineNumber: 10, Description: "unlocked map write", Severity: domain.SeverityCritical},
			},
		},
		textResponses: []string{"patch guidance", "final markdown comment"},
	}
	poster := &fakePoster{}
	state := newState()

	err := newEngine(t, gen, poster).Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.reviewCalls)
	assert.Equal(t, 2, gen.textCalls, "one patch call, one comment call")

	// The commit call sees both the review result and the patch text.
	commitReq := gen.textPrompts[1]
	assert.Contains(t, commitReq.Prompt, "patch guidance")
	assert.Contains(t, commitReq.Prompt, "unlocked map write")
	assert.Contains(t, commitReq.Prompt, `"has_bugs": true`)

	assert.Equal(t, "patch guidance", state.PatchText)
	assert.Equal(t, 1, poster.calls, "exactly one comment per run")
	assert.Equal(t, "final markdown comment", state.FinalComment)
}

func TestRun_EmptyIssuesUnderHasBugsUsesPlaceholderSafely(t *testing.T) {
	// A generator may flag bugs without listing issues; the run must not
	// crash and the commit prompt gets the placeholder when patch text is
	// empty.
	gen := &fakeGenerator{
		reviewResult:  domain.ReviewResult{HasBugs: true, Summary: "something smells"},
		textResponses: []string{"", "final comment"},
	}
	poster := &fakePoster{}
	state := newState()

	err := newEngine(t, gen, poster).Run(context.Background(), state)
	require.NoError(t, err)

	commitReq := gen.textPrompts[1]
	assert.Contains(t, commitReq.Prompt, workflow.PatchPlaceholder)
	assert.Equal(t, 1, poster.calls)
}

func TestRun_ReviewFailureAbortsBeforeAnyDelivery(t *testing.T) {
	gen := &fakeGenerator{reviewErr: errors.New("provider exploded")}
	poster := &fakePoster{}

	err := newEngine(t, gen, poster).Run(context.Background(), newState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review stage")
	assert.Zero(t, poster.calls, "no comment on a failed run")
}

func TestRun_PatchFailureAborts(t *testing.T) {
	gen := &fakeGenerator{
		reviewResult: domain.ReviewResult{HasBugs: true, Summary: "buggy"},
		textErr:      errors.New("generation timeout"),
	}
	poster := &fakePoster{}

	err := newEngine(t, gen, poster).Run(context.Background(), newState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patch stage")
	assert.Zero(t, poster.calls)
}

func TestRun_DeliveryFailureIsFatal(t *testing.T) {
	gen := &fakeGenerator{
		reviewResult: domain.ReviewResult{HasBugs: false, Summary: "fine"},
	}
	poster := &fakePoster{err: errors.New("503 after retries")}
	state := newState()

	err := newEngine(t, gen, poster).Run(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit stage")
	assert.Equal(t, 1, poster.calls)
	assert.Empty(t, state.FinalComment, "final comment is only set after delivery succeeds")
}

func TestRun_NilState(t *testing.T) {
	engine := newEngine(t, &fakeGenerator{}, &fakePoster{})
	assert.Error(t, engine.Run(context.Background(), nil))
}

package process_test

import (
	"context"
	"errors"
	"testing"

	"reviewd/internal/domain"
	"reviewd/internal/usecase/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	diff   string
	err    error
	repo   string
	number int
}

func (f *fakeFetcher) FetchDiff(ctx context.Context, repo string, number int) (string, error) {
	f.repo = repo
	f.number = number
	return f.diff, f.err
}

type fakeRunner struct {
	err   error
	calls int
	state *domain.WorkflowState
}

func (f *fakeRunner) Run(ctx context.Context, state *domain.WorkflowState) error {
	f.calls++
	f.state = state
	if f.err != nil {
		return f.err
	}
	state.FinalComment = "posted"
	return nil
}

const sampleDiff = "diff --git a/main.go b/main.go\n--- a/main.go\n+++ b/main.go\n@@ -1,1 +1,2 @@\n line\n+added\n"

func newProcessor(t *testing.T, fetcher *fakeFetcher, runner *fakeRunner) *process.Processor {
	t.Helper()
	p, err := process.NewProcessor(fetcher, runner, nil)
	require.NoError(t, err)
	p.SetRunIDFunc(func() string { return "run-fixed" })
	return p
}

func TestNewProcessor_RequiresDependencies(t *testing.T) {
	_, err := process.NewProcessor(nil, &fakeRunner{}, nil)
	assert.Error(t, err)

	_, err = process.NewProcessor(&fakeFetcher{}, nil, nil)
	assert.Error(t, err)
}

func TestProcess_HappyPath(t *testing.T) {
	fetcher := &fakeFetcher{diff: sampleDiff}
	runner := &fakeRunner{}

	err := newProcessor(t, fetcher, runner).Process(context.Background(), "octocat/hello", 42)
	require.NoError(t, err)

	assert.Equal(t, "octocat/hello", fetcher.repo)
	assert.Equal(t, 42, fetcher.number)

	require.Equal(t, 1, runner.calls)
	assert.Equal(t, "run-fixed", runner.state.RunID)
	assert.Equal(t, "octocat/hello", runner.state.Repo)
	assert.Equal(t, 42, runner.state.Number)
	assert.Equal(t, sampleDiff, runner.state.Diff)
}

func TestProcess_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("404 pull not found")}
	runner := &fakeRunner{}

	err := newProcessor(t, fetcher, runner).Process(context.Background(), "octocat/hello", 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch diff")
	assert.Zero(t, runner.calls, "workflow must not start without a diff")
}

func TestProcess_EmptyDiffSkipsRun(t *testing.T) {
	fetcher := &fakeFetcher{diff: ""}
	runner := &fakeRunner{}

	err := newProcessor(t, fetcher, runner).Process(context.Background(), "octocat/hello", 42)
	require.NoError(t, err)
	assert.Zero(t, runner.calls)
}

func TestProcess_WorkflowFailurePropagates(t *testing.T) {
	fetcher := &fakeFetcher{diff: sampleDiff}
	runner := &fakeRunner{err: errors.New("commit stage: deliver comment: boom")}

	err := newProcessor(t, fetcher, runner).Process(context.Background(), "octocat/hello", 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run run-fixed")
}

func TestProcess_UniqueRunIDsByDefault(t *testing.T) {
	fetcher := &fakeFetcher{diff: sampleDiff}
	runner := &fakeRunner{}

	p, err := process.NewProcessor(fetcher, runner, nil)
	require.NoError(t, err)

	require.NoError(t, p.Process(context.Background(), "a/b", 1))
	first := runner.state.RunID

	require.NoError(t, p.Process(context.Background(), "a/b", 2))
	second := runner.state.RunID

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

// Package process turns one accepted pull-request event into one workflow
// run: fetch the diff, build the run state, and drive the stages.
package process

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reviewd/internal/diff"
	"reviewd/internal/domain"
)

// DiffFetcher fetches the unified diff for a pull request.
type DiffFetcher interface {
	FetchDiff(ctx context.Context, repo string, number int) (string, error)
}

// WorkflowRunner drives the review stages over a run state.
type WorkflowRunner interface {
	Run(ctx context.Context, state *domain.WorkflowState) error
}

// Logger defines the structured logging port for the processor.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Processor owns the per-event pipeline.
type Processor struct {
	fetcher DiffFetcher
	runner  WorkflowRunner
	logger  Logger

	// newRunID is swappable for tests.
	newRunID func() string
}

// NewProcessor constructs a Processor, validating required dependencies.
func NewProcessor(fetcher DiffFetcher, runner WorkflowRunner, logger Logger) (*Processor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("processor requires a diff fetcher")
	}
	if runner == nil {
		return nil, fmt.Errorf("processor requires a workflow runner")
	}

	return &Processor{
		fetcher:  fetcher,
		runner:   runner,
		logger:   logger,
		newRunID: uuid.NewString,
	}, nil
}

// SetRunIDFunc overrides run ID generation (for testing).
func (p *Processor) SetRunIDFunc(fn func() string) {
	if fn != nil {
		p.newRunID = fn
	}
}

// Process reviews one pull request end to end. An empty diff is not an
// error: the run is skipped with a warning because there is nothing to
// review.
func (p *Processor) Process(ctx context.Context, repo string, number int) error {
	runID := p.newRunID()

	p.logInfo(ctx, "review run started", runID, repo, number, nil)

	rawDiff, err := p.fetcher.FetchDiff(ctx, repo, number)
	if err != nil {
		return fmt.Errorf("fetch diff for %s#%d: %w", repo, number, err)
	}

	if rawDiff == "" {
		p.logWarning(ctx, "empty diff, skipping run", runID, repo, number, nil)
		return nil
	}

	summary := diff.Parse(rawDiff)
	p.logInfo(ctx, "diff fetched", runID, repo, number, map[string]interface{}{
		"files":     len(summary.Files),
		"additions": summary.TotalAdditions(),
		"deletions": summary.TotalDeletions(),
	})

	state := &domain.WorkflowState{
		RunID:  runID,
		Repo:   repo,
		Number: number,
		Diff:   rawDiff,
	}

	if err := p.runner.Run(ctx, state); err != nil {
		return fmt.Errorf("run %s for %s#%d: %w", runID, repo, number, err)
	}

	p.logInfo(ctx, "review run finished", runID, repo, number, map[string]interface{}{
		"commentChars": len(state.FinalComment),
	})
	return nil
}

func (p *Processor) logInfo(ctx context.Context, message, runID, repo string, number int, extra map[string]interface{}) {
	if p.logger == nil {
		return
	}
	p.logger.LogInfo(ctx, message, runFields(runID, repo, number, extra))
}

func (p *Processor) logWarning(ctx context.Context, message, runID, repo string, number int, extra map[string]interface{}) {
	if p.logger == nil {
		return
	}
	p.logger.LogWarning(ctx, message, runFields(runID, repo, number, extra))
}

func runFields(runID, repo string, number int, extra map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{
		"runID":  runID,
		"repo":   repo,
		"number": number,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

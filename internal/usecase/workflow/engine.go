// Package workflow sequences the three review stages over one
// WorkflowState: review, a conditional patch proposal, and the commit stage
// that delivers exactly one terminal comment per run.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"reviewd/internal/domain"
)

// GenerateRequest is the payload sent to the text-generation capability.
type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Generator defines the outbound port for text generation. Structured review
// generation and free-text generation are separate operations so providers
// can be swapped without touching workflow logic.
type Generator interface {
	// GenerateReview produces a schema-validated structured review.
	GenerateReview(ctx context.Context, req GenerateRequest) (domain.ReviewResult, error)

	// GenerateText produces free-form text (patch guidance, comment prose).
	GenerateText(ctx context.Context, req GenerateRequest) (string, error)
}

// CommentPoster defines the outbound port for delivering the final comment.
type CommentPoster interface {
	PostComment(ctx context.Context, repo string, number int, body string) error
}

// Logger defines the structured logging port for the workflow.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Stage identifies a node of the review state machine.
type Stage int

const (
	StageReview Stage = iota
	StagePatch
	StageCommit
	StageDone
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageReview:
		return "review"
	case StagePatch:
		return "patch"
	case StageCommit:
		return "commit"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// EngineDeps contains the dependencies for the workflow engine.
type EngineDeps struct {
	Generator Generator
	Poster    CommentPoster
	Logger    Logger // optional

	// MaxTokens and Temperature apply to every generation call.
	MaxTokens   int
	Temperature float64
}

// Engine runs the review state machine. It performs no retries of its own:
// transient-failure handling belongs to the HTTP clients behind the ports,
// and any stage error aborts the run.
type Engine struct {
	generator   Generator
	poster      CommentPoster
	logger      Logger
	maxTokens   int
	temperature float64
}

const defaultMaxTokens = 4096

// NewEngine constructs an Engine, validating required dependencies.
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("workflow engine requires a generator")
	}
	if deps.Poster == nil {
		return nil, fmt.Errorf("workflow engine requires a comment poster")
	}

	maxTokens := deps.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Engine{
		generator:   deps.Generator,
		poster:      deps.Poster,
		logger:      deps.Logger,
		maxTokens:   maxTokens,
		temperature: deps.Temperature,
	}, nil
}

// Run drives state through review → (patch) → commit. The conditional edge
// after review is evaluated exactly once; commit always runs last and
// delivers exactly one comment. Any error is terminal for the run.
func (e *Engine) Run(ctx context.Context, state *domain.WorkflowState) error {
	if state == nil {
		return fmt.Errorf("workflow state is nil")
	}

	for stage := StageReview; stage != StageDone; {
		next, err := e.step(ctx, stage, state)
		if err != nil {
			return fmt.Errorf("%s stage: %w", stage, err)
		}
		stage = next
	}
	return nil
}

// step executes one stage and returns the next one.
func (e *Engine) step(ctx context.Context, stage Stage, state *domain.WorkflowState) (Stage, error) {
	switch stage {
	case StageReview:
		if err := e.runReview(ctx, state); err != nil {
			return StageDone, err
		}
		return routeAfterReview(state), nil

	case StagePatch:
		if err := e.runPatch(ctx, state); err != nil {
			return StageDone, err
		}
		return StageCommit, nil

	case StageCommit:
		if err := e.runCommit(ctx, state); err != nil {
			return StageDone, err
		}
		return StageDone, nil

	default:
		return StageDone, fmt.Errorf("unexpected stage %d", int(stage))
	}
}

// routeAfterReview is the single branch point of the whole workflow.
func routeAfterReview(state *domain.WorkflowState) Stage {
	if state.ReviewResult != nil && state.ReviewResult.HasBugs {
		return StagePatch
	}
	return StageCommit
}

func (e *Engine) runReview(ctx context.Context, state *domain.WorkflowState) error {
	e.logInfo(ctx, "review stage started", state, nil)

	result, err := e.generator.GenerateReview(ctx, GenerateRequest{
		System:      reviewerSystemPrompt,
		Prompt:      BuildReviewPrompt(state.Diff),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return fmt.Errorf("generate review: %w", err)
	}

	state.ReviewResult = &result
	e.logInfo(ctx, "review stage finished", state, map[string]interface{}{
		"hasBugs": result.HasBugs,
		"issues":  len(result.Issues),
	})
	return nil
}

func (e *Engine) runPatch(ctx context.Context, state *domain.WorkflowState) error {
	e.logInfo(ctx, "patch stage started", state, nil)

	reviewJSON, err := marshalReview(state.ReviewResult)
	if err != nil {
		return err
	}

	patch, err := e.generator.GenerateText(ctx, GenerateRequest{
		System:      patcherSystemPrompt,
		Prompt:      BuildPatchPrompt(state.Diff, reviewJSON),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return fmt.Errorf("generate patch proposal: %w", err)
	}

	state.PatchText = patch
	e.logInfo(ctx, "patch stage finished", state, nil)
	return nil
}

func (e *Engine) runCommit(ctx context.Context, state *domain.WorkflowState) error {
	if state.ReviewResult == nil {
		return fmt.Errorf("commit stage reached without a review result")
	}

	e.logInfo(ctx, "commit stage started", state, nil)

	var comment string
	if !state.ReviewResult.HasBugs {
		// Cheap path: no generation call for a clean review.
		comment = ApprovalComment(state.ReviewResult.Summary)
	} else {
		reviewJSON, err := marshalReview(state.ReviewResult)
		if err != nil {
			return err
		}

		patch := state.PatchText
		if patch == "" {
			patch = PatchPlaceholder
		}

		comment, err = e.generator.GenerateText(ctx, GenerateRequest{
			System:      committerSystemPrompt,
			Prompt:      BuildCommentPrompt(state.ReviewResult.Issues, reviewJSON, patch),
			MaxTokens:   e.maxTokens,
			Temperature: e.temperature,
		})
		if err != nil {
			return fmt.Errorf("generate final comment: %w", err)
		}
	}

	if err := e.poster.PostComment(ctx, state.Repo, state.Number, comment); err != nil {
		return fmt.Errorf("deliver comment: %w", err)
	}

	state.FinalComment = comment
	e.logInfo(ctx, "commit stage finished", state, nil)
	return nil
}

func marshalReview(result *domain.ReviewResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal review result: %w", err)
	}
	return string(data), nil
}

func (e *Engine) logInfo(ctx context.Context, message string, state *domain.WorkflowState, extra map[string]interface{}) {
	if e.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"runID":  state.RunID,
		"repo":   state.Repo,
		"number": state.Number,
	}
	for k, v := range extra {
		fields[k] = v
	}
	e.logger.LogInfo(ctx, message, fields)
}

// Package webhook exposes the inbound HTTP surface: the event endpoint
// GitHub delivers to, and a health probe.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"reviewd/internal/adapter/github"
)

const (
	eventHeader     = "X-GitHub-Event"
	signatureHeader = "X-Hub-Signature-256"

	eventPullRequest = "pull_request"
)

// acceptedActions are the pull request actions that trigger a review.
var acceptedActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
}

// Dispatch hands an accepted event off for asynchronous processing. The
// context is detached from the request; delivery has already been
// acknowledged when this runs.
type Dispatch func(ctx context.Context, repo string, number int)

// Logger defines the structured logging port for the handler.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Handler verifies and routes incoming webhook deliveries.
type Handler struct {
	secret   []byte
	dispatch Dispatch
	logger   Logger

	// baseCtx parents the per-event processing contexts so in-flight runs
	// stop on shutdown.
	baseCtx context.Context
}

// NewHandler constructs a Handler. The secret must match the one configured
// on the GitHub webhook; dispatch receives every accepted event.
func NewHandler(secret []byte, dispatch Dispatch, logger Logger) *Handler {
	return &Handler{
		secret:   secret,
		dispatch: dispatch,
		logger:   logger,
		baseCtx:  context.Background(),
	}
}

// SetBaseContext sets the parent context for dispatched processing.
func (h *Handler) SetBaseContext(ctx context.Context) {
	if ctx != nil {
		h.baseCtx = ctx
	}
}

// Router returns a mux with the webhook and health endpoints registered.
func (h *Handler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", h.HandleWebhook)
	mux.HandleFunc("/healthz", h.HandleHealth)
	return mux
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleWebhook validates a delivery and acknowledges it. Signature
// verification fails closed: any missing or wrong signature is 401 before
// the payload is even parsed. Accepted events are acknowledged with 202 and
// processed asynchronously.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	if !github.VerifySignature(h.secret, payload, r.Header.Get(signatureHeader)) {
		h.logWarning(r.Context(), "webhook signature rejected", map[string]interface{}{
			"event": r.Header.Get(eventHeader),
		})
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	if event := r.Header.Get(eventHeader); event != eventPullRequest {
		h.logInfo(r.Context(), "ignoring event", map[string]interface{}{"event": event})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	var event github.PullRequestEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed payload"})
		return
	}

	if !acceptedActions[event.Action] {
		h.logInfo(r.Context(), "ignoring action", map[string]interface{}{"action": event.Action})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	repo := event.Repository.FullName
	number := event.PullRequest.Number
	if repo == "" || number < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing repository or pull request number"})
		return
	}

	h.logInfo(r.Context(), "webhook accepted", map[string]interface{}{
		"repo":   repo,
		"number": number,
		"action": event.Action,
	})

	if h.dispatch != nil {
		go h.dispatch(h.baseCtx, repo, number)
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if h.logger != nil {
		h.logger.LogInfo(ctx, message, fields)
	}
}

func (h *Handler) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if h.logger != nil {
		h.logger.LogWarning(ctx, message, fields)
	}
}

package workflow

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	ai "github.com/spetersoncode/postflow"
	"github.com/spetersoncode/postflow/pipeline"
	"github.com/spetersoncode/postflow/publish"
	"github.com/spetersoncode/postflow/store"
)

// DefaultMaxRevisions bounds how many times a session may be sent back
// for changes.
const DefaultMaxRevisions = 3

// imageAttempts is how many times a pending image is tried during
// approval before publishing text-only.
const imageAttempts = 2

// ImageGenerator turns an image prompt into a stored asset reference.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Decision is the caller's verdict on a pending draft.
type Decision struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback,omitempty"`
}

// Config assembles an engine.
type Config struct {
	Store     store.SessionStore
	Single    pipeline.Generator
	Multi     pipeline.Generator
	Images    ImageGenerator
	Publisher publish.Publisher

	// MaxRevisions caps revision rounds per session.
	// Zero means DefaultMaxRevisions.
	MaxRevisions int

	// Logger receives operational logs. Nil means slog.Default().
	Logger *slog.Logger
}

// Engine runs the generation workflow over persisted sessions.
type Engine struct {
	store        store.SessionStore
	single       pipeline.Generator
	multi        pipeline.Generator
	images       ImageGenerator
	publisher    publish.Publisher
	maxRevisions int
	logger       *slog.Logger

	// inflight guards each session against concurrent operations.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates a workflow engine.
func New(cfg Config) *Engine {
	maxRevisions := cfg.MaxRevisions
	if maxRevisions <= 0 {
		maxRevisions = DefaultMaxRevisions
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		store:        cfg.Store,
		single:       cfg.Single,
		multi:        cfg.Multi,
		images:       cfg.Images,
		publisher:    cfg.Publisher,
		maxRevisions: maxRevisions,
		logger:       logger,
		inflight:     make(map[string]struct{}),
	}
}

// Generate creates a session for the input and produces its first draft.
// The returned session is awaiting a decision, or failed when generation
// did not survive its retries.
func (e *Engine) Generate(ctx context.Context, input ai.PostInput) (*ai.Session, error) {
	if strings.TrimSpace(input.Topic) == "" {
		return nil, ai.NewValidationError("topic", "topic must not be empty")
	}

	session := ai.NewSession(input)
	if err := e.store.Create(ctx, session); err != nil {
		return nil, err
	}

	e.logger.Info("session created",
		"session_id", session.ID,
		"multi_agent", input.UseMultiAgent,
		"include_image", input.IncludeImage)

	if err := e.draft(ctx, session, pipeline.Request{Input: input}); err != nil {
		return nil, err
	}
	return session, nil
}

// Decide resolves a pending draft: approval retries any pending image
// and publishes, a change request starts a bounded revision round.
func (e *Engine) Decide(ctx context.Context, sessionID string, decision Decision) (*ai.Session, error) {
	if err := e.acquire(sessionID); err != nil {
		return nil, err
	}
	defer e.release(sessionID)

	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != ai.StatusAwaitingDecision {
		return nil, ai.NewConflictError(sessionID, session.Status,
			"session is not awaiting a decision")
	}

	if decision.Approved {
		err = e.approve(ctx, session)
	} else {
		err = e.revise(ctx, session, decision.Feedback)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// generator picks the strategy a session was started with. Revisions
// stay with the same strategy.
func (e *Engine) generator(input ai.PostInput) pipeline.Generator {
	if input.UseMultiAgent {
		return e.multi
	}
	return e.single
}

// draft runs generation and image creation for a session sitting in
// drafting or revising, leaving it awaiting a decision.
func (e *Engine) draft(ctx context.Context, session *ai.Session, req pipeline.Request) error {
	result, err := e.generator(session.Input).Generate(ctx, req)
	if err != nil {
		e.fail(ctx, session, err)
		return err
	}

	session.Draft = result.Draft
	e.logger.Info("draft generated",
		"session_id", session.ID,
		"revision", session.RevisionCount,
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens)

	// Image failure is not fatal: the draft stays reviewable and the
	// image is retried when the draft is approved.
	if session.Input.IncludeImage && session.Draft.ImagePrompt != "" {
		path, err := e.images.Generate(ctx, session.Draft.ImagePrompt)
		if err != nil {
			e.logger.Warn("image generation failed, draft keeps pending image",
				"session_id", session.ID, "error", err)
		} else {
			session.Draft.ImagePath = path
		}
	}

	return e.transition(ctx, session, ai.StatusAwaitingDecision)
}

// approve publishes the draft, retrying a pending image first. A publish
// failure returns the session to awaiting_decision so approval can be
// retried.
func (e *Engine) approve(ctx context.Context, session *ai.Session) error {
	if err := e.transition(ctx, session, ai.StatusPublishing); err != nil {
		return err
	}

	if session.Draft.HasPendingImage() {
		e.retryPendingImage(ctx, session)
	}

	receipt, err := e.publisher.Publish(ctx, session.Draft)
	if err != nil {
		session.LastError = err.Error()
		if terr := e.transition(ctx, session, ai.StatusAwaitingDecision); terr != nil {
			return terr
		}
		e.logger.Warn("publish failed, session returned for another decision",
			"session_id", session.ID, "error", err)
		return err
	}

	e.logger.Info("session published",
		"session_id", session.ID,
		"post_id", receipt.PostID,
		"simulated", receipt.Simulated)

	session.LastError = ""
	return e.transition(ctx, session, ai.StatusDone)
}

// retryPendingImage makes bounded attempts to produce the image the
// drafting phase could not. Exhaustion is logged and the post goes out
// text-only.
func (e *Engine) retryPendingImage(ctx context.Context, session *ai.Session) {
	for attempt := 1; attempt <= imageAttempts; attempt++ {
		path, err := e.images.Generate(ctx, session.Draft.ImagePrompt)
		if err == nil {
			session.Draft.ImagePath = path
			return
		}
		e.logger.Warn("pending image retry failed",
			"session_id", session.ID, "attempt", attempt, "error", err)
	}
	e.logger.Warn("image exhausted retries, publishing text-only", "session_id", session.ID)
}

// revise starts a full regeneration with the feedback as a constraint.
// The previous draft is preserved in history.
func (e *Engine) revise(ctx context.Context, session *ai.Session, feedback string) error {
	if strings.TrimSpace(feedback) == "" {
		return ai.NewValidationError("feedback", "feedback is required when requesting changes")
	}
	if session.RevisionCount >= e.maxRevisions {
		return ai.NewConflictError(session.ID, session.Status,
			"revision limit reached")
	}

	previous := session.Draft
	session.AppendHistory(feedback)
	session.RevisionCount++
	if err := e.transition(ctx, session, ai.StatusRevising); err != nil {
		return err
	}

	e.logger.Info("revision started",
		"session_id", session.ID,
		"revision", session.RevisionCount)

	return e.draft(ctx, session, pipeline.Request{
		Input:    session.Input,
		Previous: &previous,
		Feedback: feedback,
	})
}

// transition validates and persists a status change.
func (e *Engine) transition(ctx context.Context, session *ai.Session, to ai.Status) error {
	if !CanTransition(session.Status, to) {
		return ai.NewConflictError(session.ID, session.Status,
			"illegal transition to "+to.String())
	}
	session.Status = to
	session.UpdatedAt = time.Now().UTC()
	return e.store.Update(ctx, session)
}

// fail marks the session failed with the cause. Persistence errors here
// are logged, not returned: the generation error is the one the caller
// needs.
func (e *Engine) fail(ctx context.Context, session *ai.Session, cause error) {
	session.LastError = cause.Error()
	session.Status = ai.StatusFailed
	session.UpdatedAt = time.Now().UTC()
	if err := e.store.Update(ctx, session); err != nil {
		e.logger.Error("failed to persist failed session",
			"session_id", session.ID, "error", err)
	}
	e.logger.Error("session failed", "session_id", session.ID, "error", cause)
}

// Session returns the current state of a session.
func (e *Engine) Session(ctx context.Context, sessionID string) (*ai.Session, error) {
	return e.store.Get(ctx, sessionID)
}

// acquire marks a session busy, or reports a conflict when another
// operation is already in flight. Operations never queue.
func (e *Engine) acquire(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[sessionID]; busy {
		return ai.NewConflictError(sessionID, "", "another operation is in flight for this session")
	}
	e.inflight[sessionID] = struct{}{}
	return nil
}

func (e *Engine) release(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, sessionID)
}

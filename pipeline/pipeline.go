package pipeline

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/postflow"
)

// ChatClient is the subset of the unified client needed for text
// generation.
type ChatClient interface {
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)
}

// Request describes one generation run. Previous and Feedback are set
// only for revisions.
type Request struct {
	Input    ai.PostInput
	Previous *ai.Draft
	Feedback string
}

// Result is a finished generation run.
type Result struct {
	Draft ai.Draft
	Usage ai.Usage
}

// Generator produces a post draft from a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// DraftState is the shared working state passed between multi-agent
// stages. Each stage reads what earlier stages produced and fills in
// its own fields.
type DraftState struct {
	Input    ai.PostInput
	Previous *ai.Draft
	Feedback string

	// Research stage
	ResearchSummary string
	KeyInsights     []string

	// Strategy stage
	Strategy       string
	TargetAudience string
	ToneGuidelines string
	Outline        string

	// Write / edit stages
	Content        string
	EditorFeedback string

	// SEO stage
	Hashtags []string
	SEONotes string

	// Visual stage
	ImagePrompt string

	Usage ai.Usage
}

// Stage is one step of the multi-agent pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *DraftState) error
}

// StageError wraps a failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

package pipeline

import (
	"context"

	ai "github.com/spetersoncode/postflow"
)

// maxEditPasses bounds the internal write/edit loop. The editor can send
// a draft back to the writer at most this many times per run.
const maxEditPasses = 2

// MultiAgent generates drafts through a sequence of specialized stages,
// each a separate model call refining the shared state.
type MultiAgent struct {
	client ChatClient
}

// NewMultiAgent creates the multi-agent generator.
func NewMultiAgent(client ChatClient) *MultiAgent {
	return &MultiAgent{client: client}
}

// Generate runs the full stage sequence: research, strategy, then a
// write/edit loop, then seo and visual. A stage failure aborts the run
// and is returned wrapped in a StageError.
func (m *MultiAgent) Generate(ctx context.Context, req Request) (*Result, error) {
	state := &DraftState{
		Input:    req.Input,
		Previous: req.Previous,
		Feedback: req.Feedback,
	}

	research := &researchStage{client: m.client}
	strategy := &strategyStage{client: m.client}
	write := &writeStage{client: m.client}
	edit := &editStage{client: m.client}

	for _, stage := range []Stage{research, strategy} {
		if err := m.run(ctx, stage, state); err != nil {
			return nil, err
		}
	}

	// The editor may bounce the draft back to the writer, bounded so a
	// picky editor cannot loop forever.
	for pass := 0; ; pass++ {
		if err := m.run(ctx, write, state); err != nil {
			return nil, err
		}
		if err := m.run(ctx, edit, state); err != nil {
			return nil, err
		}
		if state.EditorFeedback == "" || pass >= maxEditPasses-1 {
			break
		}
	}

	for _, stage := range []Stage{&seoStage{client: m.client}, &visualStage{client: m.client}} {
		if err := m.run(ctx, stage, state); err != nil {
			return nil, err
		}
	}

	return &Result{
		Draft: ai.Draft{
			Content:     state.Content,
			Hashtags:    state.Hashtags,
			ImagePrompt: state.ImagePrompt,
		},
		Usage: state.Usage,
	}, nil
}

func (m *MultiAgent) run(ctx context.Context, stage Stage, state *DraftState) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage.Name(), Err: err}
	}
	if err := stage.Run(ctx, state); err != nil {
		return &StageError{Stage: stage.Name(), Err: err}
	}
	return nil
}

var _ Generator = (*MultiAgent)(nil)

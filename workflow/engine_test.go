package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/postflow"
	"github.com/spetersoncode/postflow/pipeline"
	"github.com/spetersoncode/postflow/publish"
	"github.com/spetersoncode/postflow/store"
)

// stubGenerator returns scripted drafts and records requests.
type stubGenerator struct {
	mu     sync.Mutex
	drafts []ai.Draft
	err    error
	calls  []pipeline.Request
}

func (g *stubGenerator) Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	idx := len(g.calls) - 1
	if idx >= len(g.drafts) {
		idx = len(g.drafts) - 1
	}
	return &pipeline.Result{Draft: g.drafts[idx]}, nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// stubImages fails the first failures calls, then succeeds.
type stubImages struct {
	mu       sync.Mutex
	failures int
	calls    int
	path     string
}

func (s *stubImages) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return "", ai.NewTransientError("image service overloaded", 503, nil)
	}
	if s.path == "" {
		return "generated_images/stub.png", nil
	}
	return s.path, nil
}

func (s *stubImages) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubPublisher records publishes and can fail a number of times.
type stubPublisher struct {
	mu       sync.Mutex
	failures int
	calls    []ai.Draft
}

func (p *stubPublisher) Publish(ctx context.Context, draft ai.Draft) (*publish.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, draft)
	if len(p.calls) <= p.failures {
		return nil, ai.NewTransientError("feed unavailable", 502, nil)
	}
	return &publish.Receipt{PostID: "post-1", PublishedAt: time.Now().UTC()}, nil
}

func (p *stubPublisher) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type fixture struct {
	engine    *Engine
	single    *stubGenerator
	multi     *stubGenerator
	images    *stubImages
	publisher *stubPublisher
	store     *store.Memory
}

func newFixture(opts ...func(*fixture)) *fixture {
	f := &fixture{
		single: &stubGenerator{drafts: []ai.Draft{{
			Content:     "single draft",
			Hashtags:    []string{"go"},
			ImagePrompt: "a gopher",
		}}},
		multi: &stubGenerator{drafts: []ai.Draft{{
			Content:     "multi draft",
			Hashtags:    []string{"go", "ai"},
			ImagePrompt: "a team of gophers",
		}}},
		images:    &stubImages{},
		publisher: &stubPublisher{},
		store:     store.NewMemory(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.engine = New(Config{
		Store:     f.store,
		Single:    f.single,
		Multi:     f.multi,
		Images:    f.images,
		Publisher: f.publisher,
	})
	return f
}

func validInput() ai.PostInput {
	return ai.PostInput{Topic: "Go generics in production", IncludeImage: true}
}

func TestGenerateProducesAwaitingDecision(t *testing.T) {
	f := newFixture()

	session, err := f.engine.Generate(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, ai.StatusAwaitingDecision, session.Status)
	assert.Equal(t, "single draft", session.Draft.Content)
	assert.Equal(t, "generated_images/stub.png", session.Draft.ImagePath)
	assert.Equal(t, 0, session.RevisionCount)

	stored, err := f.store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, ai.StatusAwaitingDecision, stored.Status)
}

func TestGenerateEmptyTopic(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Generate(context.Background(), ai.PostInput{Topic: "   "})

	assert.True(t, ai.IsValidation(err))
	assert.Equal(t, 0, f.single.callCount())
}

func TestGenerateStrategySelection(t *testing.T) {
	f := newFixture()

	input := validInput()
	input.UseMultiAgent = true
	session, err := f.engine.Generate(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "multi draft", session.Draft.Content)
	assert.Equal(t, 1, f.multi.callCount())
	assert.Equal(t, 0, f.single.callCount())
}

func TestGenerateWithoutImageNeverCallsImages(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.single.drafts = []ai.Draft{{Content: "text only"}}
	})

	session, err := f.engine.Generate(context.Background(), ai.PostInput{Topic: "Go without pictures"})

	require.NoError(t, err)
	assert.Equal(t, 0, f.images.callCount())
	assert.Empty(t, session.Draft.ImagePath)
	assert.False(t, session.Draft.HasPendingImage())
}

func TestGenerateImageFailureIsNotFatal(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.images.failures = 10
	})

	session, err := f.engine.Generate(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, ai.StatusAwaitingDecision, session.Status)
	assert.Empty(t, session.Draft.ImagePath)
	assert.Equal(t, "a gopher", session.Draft.ImagePrompt)
	assert.True(t, session.Draft.HasPendingImage())
}

func TestGenerateGeneratorFailureFailsSession(t *testing.T) {
	genErr := ai.NewPermanentError("invalid api key", 401, nil)
	f := newFixture(func(f *fixture) {
		f.single.err = genErr
	})

	_, err := f.engine.Generate(context.Background(), validInput())

	require.Error(t, err)
	assert.True(t, ai.IsPermanent(err))
}

func TestApprovePublishesAndCompletes(t *testing.T) {
	f := newFixture()
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	decided, err := f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})

	require.NoError(t, err)
	assert.Equal(t, ai.StatusDone, decided.Status)
	assert.Equal(t, 1, f.publisher.callCount())
}

func TestApproveRetriesPendingImage(t *testing.T) {
	f := newFixture(func(f *fixture) {
		// Fails during drafting, succeeds on the approval retry.
		f.images.failures = 1
	})
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)
	require.True(t, session.Draft.HasPendingImage())

	decided, err := f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})

	require.NoError(t, err)
	assert.Equal(t, ai.StatusDone, decided.Status)
	assert.Equal(t, "generated_images/stub.png", decided.Draft.ImagePath)
}

func TestApprovePublishesTextOnlyWhenImageExhausted(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.images.failures = 100
	})
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	decided, err := f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})

	require.NoError(t, err)
	assert.Equal(t, ai.StatusDone, decided.Status)
	assert.Empty(t, decided.Draft.ImagePath)
	require.Equal(t, 1, f.publisher.callCount())
	assert.Empty(t, f.publisher.calls[0].ImagePath)
}

func TestApprovePublishFailureReturnsToAwaitingDecision(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.publisher.failures = 1
	})
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})
	require.Error(t, err)

	stored, err := f.store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, ai.StatusAwaitingDecision, stored.Status)
	assert.NotEmpty(t, stored.LastError)

	// A second approval succeeds.
	decided, err := f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})
	require.NoError(t, err)
	assert.Equal(t, ai.StatusDone, decided.Status)
	assert.Empty(t, decided.LastError)
}

func TestDecideAfterDoneConflicts(t *testing.T) {
	f := newFixture()
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})
	require.NoError(t, err)

	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})
	assert.True(t, ai.IsConflict(err))
	// No double publish.
	assert.Equal(t, 1, f.publisher.callCount())
}

func TestDecideUnknownSession(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Decide(context.Background(), "sess-missing", Decision{Approved: true})

	assert.True(t, ai.IsNotFound(err))
}

func TestReviseRegeneratesWithFeedback(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.single.drafts = []ai.Draft{
			{Content: "first draft", ImagePrompt: "a gopher"},
			{Content: "second draft", ImagePrompt: "a better gopher"},
		}
	})
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	revised, err := f.engine.Decide(context.Background(), session.ID, Decision{Feedback: "punchier hook"})

	require.NoError(t, err)
	assert.Equal(t, ai.StatusAwaitingDecision, revised.Status)
	assert.Equal(t, "second draft", revised.Draft.Content)
	assert.Equal(t, 1, revised.RevisionCount)

	require.Len(t, revised.History, 1)
	assert.Equal(t, "first draft", revised.History[0].Draft.Content)
	assert.Equal(t, "punchier hook", revised.History[0].Feedback)

	// The generator saw the previous draft and the feedback.
	require.Equal(t, 2, f.single.callCount())
	req := f.single.calls[1]
	assert.Equal(t, "punchier hook", req.Feedback)
	require.NotNil(t, req.Previous)
	assert.Equal(t, "first draft", req.Previous.Content)
}

func TestReviseStaysWithOriginalStrategy(t *testing.T) {
	f := newFixture()
	input := validInput()
	input.UseMultiAgent = true
	session, err := f.engine.Generate(context.Background(), input)
	require.NoError(t, err)

	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Feedback: "shorter"})

	require.NoError(t, err)
	assert.Equal(t, 2, f.multi.callCount())
	assert.Equal(t, 0, f.single.callCount())
}

func TestReviseEmptyFeedback(t *testing.T) {
	f := newFixture()
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Feedback: "  "})

	assert.True(t, ai.IsValidation(err))

	stored, serr := f.store.Get(context.Background(), session.ID)
	require.NoError(t, serr)
	assert.Equal(t, ai.StatusAwaitingDecision, stored.Status)
	assert.Equal(t, 0, stored.RevisionCount)
}

func TestReviseLimitLeavesDraftUnchanged(t *testing.T) {
	f := newFixture()
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	for i := 0; i < DefaultMaxRevisions; i++ {
		_, err = f.engine.Decide(context.Background(), session.ID, Decision{Feedback: "again"})
		require.NoError(t, err)
	}

	before, err := f.store.Get(context.Background(), session.ID)
	require.NoError(t, err)

	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Feedback: "one more"})
	assert.True(t, ai.IsConflict(err))

	after, err := f.store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Draft, after.Draft)
	assert.Equal(t, DefaultMaxRevisions, after.RevisionCount)
	assert.Equal(t, ai.StatusAwaitingDecision, after.Status)

	// Approval still works after the limit.
	decided, err := f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})
	require.NoError(t, err)
	assert.Equal(t, ai.StatusDone, decided.Status)
}

func TestReviseGeneratorFailureFailsSession(t *testing.T) {
	f := newFixture()
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	f.single.err = ai.NewPermanentError("model gone", 404, nil)
	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Feedback: "try again"})
	require.Error(t, err)

	stored, serr := f.store.Get(context.Background(), session.ID)
	require.NoError(t, serr)
	assert.Equal(t, ai.StatusFailed, stored.Status)
	assert.NotEmpty(t, stored.LastError)

	// A failed session takes no further decisions.
	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})
	assert.True(t, ai.IsConflict(err))
}

func TestDecideBusySessionConflicts(t *testing.T) {
	f := newFixture()
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, f.engine.acquire(session.ID))
	defer f.engine.release(session.ID)

	_, err = f.engine.Decide(context.Background(), session.ID, Decision{Approved: true})
	assert.True(t, ai.IsConflict(err))
	assert.Equal(t, 0, f.publisher.callCount())
}

func TestSessionLookup(t *testing.T) {
	f := newFixture()
	session, err := f.engine.Generate(context.Background(), validInput())
	require.NoError(t, err)

	got, err := f.engine.Session(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = f.engine.Session(context.Background(), "sess-nope")
	assert.True(t, ai.IsNotFound(err))
}

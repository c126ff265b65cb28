package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/postflow"
)

// stubChat returns canned responses in order and records every request.
type stubChat struct {
	responses []string
	err       error
	calls     [][]ai.Message
}

func (s *stubChat) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return nil, s.err
	}
	idx := len(s.calls) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return &ai.Response{
		Content: s.responses[idx],
		Usage:   ai.Usage{InputTokens: 10, OutputTokens: 20},
	}, nil
}

func TestSingleShotGenerate(t *testing.T) {
	stub := &stubChat{responses: []string{
		`{"content": "A post about Go generics.", "hashtags": ["golang", "generics"], "image_prompt": "gophers at work"}`,
	}}
	gen := NewSingleShot(stub)

	result, err := gen.Generate(context.Background(), Request{
		Input: ai.PostInput{Topic: "Go generics in practice", IncludeImage: true},
	})

	require.NoError(t, err)
	assert.Equal(t, "A post about Go generics.", result.Draft.Content)
	assert.Equal(t, []string{"golang", "generics"}, result.Draft.Hashtags)
	assert.Equal(t, "gophers at work", result.Draft.ImagePrompt)
	assert.Len(t, stub.calls, 1)
	assert.Equal(t, 10, result.Usage.InputTokens)
}

func TestSingleShotNoImageWanted(t *testing.T) {
	stub := &stubChat{responses: []string{
		`{"content": "A post.", "hashtags": ["golang"], "image_prompt": "unsolicited prompt"}`,
	}}
	gen := NewSingleShot(stub)

	result, err := gen.Generate(context.Background(), Request{
		Input: ai.PostInput{Topic: "Go modules deep dive"},
	})

	require.NoError(t, err)
	assert.Empty(t, result.Draft.ImagePrompt)
}

func TestSingleShotRevisionUsesFeedback(t *testing.T) {
	stub := &stubChat{responses: []string{
		`{"content": "A shorter post.", "hashtags": ["golang"]}`,
	}}
	gen := NewSingleShot(stub)

	result, err := gen.Generate(context.Background(), Request{
		Input:    ai.PostInput{Topic: "Go modules deep dive"},
		Previous: &ai.Draft{Content: "A long post.", Hashtags: []string{"golang", "modules"}},
		Feedback: "make it shorter",
	})

	require.NoError(t, err)
	assert.Equal(t, "A shorter post.", result.Draft.Content)

	require.Len(t, stub.calls, 1)
	user := stub.calls[0][1].Content
	assert.Contains(t, user, "make it shorter")
	assert.Contains(t, user, "A long post.")
}

func TestSingleShotClampsHashtags(t *testing.T) {
	stub := &stubChat{responses: []string{
		`{"content": "Post.", "hashtags": ["#a", "b", "c", "d", "e", "f", "g", "h"]}`,
	}}
	gen := NewSingleShot(stub)

	result, err := gen.Generate(context.Background(), Request{
		Input: ai.PostInput{Topic: "hashtag overload test"},
	})

	require.NoError(t, err)
	assert.Len(t, result.Draft.Hashtags, ai.MaxHashtags)
	assert.Equal(t, "a", result.Draft.Hashtags[0])
}

func TestSingleShotMalformedJSON(t *testing.T) {
	stub := &stubChat{responses: []string{"I refuse to answer in JSON."}}
	gen := NewSingleShot(stub)

	_, err := gen.Generate(context.Background(), Request{
		Input: ai.PostInput{Topic: "malformed output test"},
	})

	require.Error(t, err)
	assert.False(t, ai.IsTransient(err))
}

func TestSingleShotProviderError(t *testing.T) {
	stub := &stubChat{err: ai.NewPermanentError("invalid api key", 401, nil)}
	gen := NewSingleShot(stub)

	_, err := gen.Generate(context.Background(), Request{
		Input: ai.PostInput{Topic: "provider failure test"},
	})

	require.Error(t, err)
	assert.True(t, ai.IsPermanent(err))
}

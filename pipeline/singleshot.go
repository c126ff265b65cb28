package pipeline

import (
	"context"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/postflow"
)

// SingleShot generates a complete draft with one structured chat call.
// It is the cheap, low-latency strategy.
type SingleShot struct {
	client ChatClient
}

// NewSingleShot creates the single-call generator.
func NewSingleShot(client ChatClient) *SingleShot {
	return &SingleShot{client: client}
}

const singleShotSystem = `You are a professional content creator.
Create an engaging post about the given topic.
The post should be professional, informative, and include relevant hashtags.
Keep the post content between 150-300 words and make it engaging for a professional audience.
Return hashtags WITHOUT the # symbol.`

const reviseSystem = `You are helping revise a post based on author feedback.
Take the original post and the feedback to create an improved version.
Maintain the professional tone and structure while incorporating the requested changes.
Return hashtags WITHOUT the # symbol.`

// Generate produces a draft in a single JSON-mode call. Revisions reuse
// the same call shape with the previous draft and feedback inlined.
func (s *SingleShot) Generate(ctx context.Context, req Request) (*Result, error) {
	system := singleShotSystem
	if req.Input.IncludeImage {
		system += "\nAlso provide a detailed image prompt for generating a relevant visual."
	}

	var user string
	if req.Feedback != "" && req.Previous != nil {
		system = reviseSystem
		if req.Input.IncludeImage {
			system += "\nAlso provide a detailed image prompt for generating a relevant visual."
		}
		user = fmt.Sprintf(`Original post content: %s
Original hashtags: %s
Original image prompt: %s

Author feedback: %s

Please revise the post based on this feedback.`,
			req.Previous.Content,
			strings.Join(req.Previous.Hashtags, ", "),
			req.Previous.ImagePrompt,
			req.Feedback)
	} else {
		user = fmt.Sprintf("Create a post about this topic: %s", req.Input.Topic)
		if prefs := preferencesLine(req.Input); prefs != "none" {
			user += fmt.Sprintf("\n\nUser preferences: %s", prefs)
		}
	}

	user += `

Return JSON:
{"content": "...", "hashtags": ["tag1", "tag2", "tag3"], "image_prompt": "..."}`

	resp, err := s.client.Chat(ctx, []ai.Message{
		ai.NewSystemMessage(system),
		ai.NewUserMessage(user),
	}, ai.WithJSONResponse())
	if err != nil {
		return nil, err
	}

	var out struct {
		Content     string   `json:"content"`
		Hashtags    []string `json:"hashtags"`
		ImagePrompt string   `json:"image_prompt"`
	}
	if err := decodeJSON(resp.Content, &out); err != nil {
		return nil, err
	}

	draft := ai.Draft{
		Content:  strings.TrimSpace(out.Content),
		Hashtags: ai.ClampHashtags(out.Hashtags),
	}
	if req.Input.IncludeImage {
		draft.ImagePrompt = strings.TrimSpace(out.ImagePrompt)
	}

	return &Result{Draft: draft, Usage: resp.Usage}, nil
}

var _ Generator = (*SingleShot)(nil)

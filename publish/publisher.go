package publish

import (
	"context"
	"strings"
	"time"

	ai "github.com/spetersoncode/postflow"
)

// Receipt records a successful publish.
type Receipt struct {
	PostID      string    `json:"post_id"`
	Simulated   bool      `json:"simulated"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher delivers an approved draft.
type Publisher interface {
	Publish(ctx context.Context, draft ai.Draft) (*Receipt, error)
}

// renderContent joins the post body with its hashtags the way the feed
// expects them, hash-prefixed on a trailing line.
func renderContent(draft ai.Draft) string {
	if len(draft.Hashtags) == 0 {
		return draft.Content
	}

	tags := make([]string, len(draft.Hashtags))
	for i, tag := range draft.Hashtags {
		tags[i] = "#" + tag
	}
	return draft.Content + "\n\n" + strings.Join(tags, " ")
}

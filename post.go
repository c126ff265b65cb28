package postflow

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxHashtags bounds how many hashtags a draft may carry, keeping output
// length predictable.
const MaxHashtags = 6

// Topic length bounds enforced at the transport boundary. The workflow
// engine itself only rejects empty topics; full validation happens upstream.
const (
	MinTopicLength = 10
	MaxTopicLength = 500
)

// PostInput holds the user-supplied generation inputs for one session.
// These are immutable once a session starts; a revision adds a feedback
// delta rather than mutating them.
type PostInput struct {
	Topic         string `json:"topic"`
	Tone          string `json:"tone,omitempty"`
	Style         string `json:"style,omitempty"`
	Preferences   string `json:"preferences,omitempty"`
	IncludeImage  bool   `json:"includeImage"`
	UseMultiAgent bool   `json:"useMultiAgent"`
}

// Draft is the current best-known generated content for a session.
type Draft struct {
	Content     string   `json:"content"`
	Hashtags    []string `json:"hashtags,omitempty"`
	ImagePath   string   `json:"imagePath,omitempty"`
	ImagePrompt string   `json:"imagePrompt,omitempty"`
}

// HasPendingImage reports whether image generation was requested and
// produced a prompt but no stored image yet. Pending images are re-attempted
// on approval.
func (d Draft) HasPendingImage() bool {
	return d.ImagePath == "" && d.ImagePrompt != ""
}

// Status is a workflow state. Transitions are monotonic except for the
// explicit revision loop; see the workflow package for the transition table.
type Status string

const (
	StatusDrafting         Status = "drafting"
	StatusAwaitingDecision Status = "awaiting_decision"
	StatusRevising         Status = "revising"
	StatusPublishing       Status = "publishing"
	StatusDone             Status = "done"
	StatusFailed           Status = "failed"
)

// String returns the status identifier.
func (s Status) String() string { return string(s) }

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// HistoryEntry records a superseded draft together with the feedback that
// retired it. History is append-only.
type HistoryEntry struct {
	Draft     Draft     `json:"draft"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the unit of work for one post-generation attempt: the
// immutable inputs, the current draft, and the approval/revision history.
// Only the workflow engine mutates sessions; generators return new draft
// values that the engine applies.
type Session struct {
	ID            string         `json:"id"`
	Input         PostInput      `json:"input"`
	Status        Status         `json:"status"`
	Draft         Draft          `json:"draft"`
	RevisionCount int            `json:"revisionCount"`
	History       []HistoryEntry `json:"history,omitempty"`
	LastError     string         `json:"lastError,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewSession creates a session in the drafting state with a fresh ID.
func NewSession(input PostInput) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        NewSessionID(),
		Input:     input,
		Status:    StatusDrafting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSessionID creates a unique session identifier.
func NewSessionID() string {
	return "sess-" + uuid.New().String()
}

// AppendHistory records the current draft and the feedback that retired it.
func (s *Session) AppendHistory(feedback string) {
	s.History = append(s.History, HistoryEntry{
		Draft:     s.Draft,
		Feedback:  feedback,
		CreatedAt: time.Now().UTC(),
	})
}

// ClampHashtags trims the tag list to MaxHashtags and strips any leading
// '#' so formatting is a rendering concern.
func ClampHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == MaxHashtags {
			break
		}
	}
	return out
}

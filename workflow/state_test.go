package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ai "github.com/spetersoncode/postflow"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to ai.Status
		want     bool
	}{
		{ai.StatusDrafting, ai.StatusAwaitingDecision, true},
		{ai.StatusAwaitingDecision, ai.StatusRevising, true},
		{ai.StatusAwaitingDecision, ai.StatusPublishing, true},
		{ai.StatusRevising, ai.StatusAwaitingDecision, true},
		{ai.StatusPublishing, ai.StatusDone, true},
		{ai.StatusPublishing, ai.StatusAwaitingDecision, true},

		{ai.StatusDrafting, ai.StatusPublishing, false},
		{ai.StatusDone, ai.StatusAwaitingDecision, false},
		{ai.StatusDone, ai.StatusPublishing, false},
		{ai.StatusRevising, ai.StatusPublishing, false},
		{ai.StatusAwaitingDecision, ai.StatusDone, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestFailedReachableFromNonTerminalOnly(t *testing.T) {
	for _, from := range []ai.Status{ai.StatusDrafting, ai.StatusAwaitingDecision, ai.StatusRevising, ai.StatusPublishing} {
		assert.True(t, CanTransition(from, ai.StatusFailed), "%s -> failed", from)
	}
	assert.False(t, CanTransition(ai.StatusDone, ai.StatusFailed))
	assert.False(t, CanTransition(ai.StatusFailed, ai.StatusFailed))
}

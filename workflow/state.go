package workflow

import (
	ai "github.com/spetersoncode/postflow"
)

// transitions is the allowed state machine. Failed is reachable from any
// non-terminal state and handled separately.
var transitions = map[ai.Status][]ai.Status{
	ai.StatusDrafting:         {ai.StatusAwaitingDecision},
	ai.StatusAwaitingDecision: {ai.StatusRevising, ai.StatusPublishing},
	ai.StatusRevising:         {ai.StatusAwaitingDecision},
	ai.StatusPublishing:       {ai.StatusDone, ai.StatusAwaitingDecision},
}

// CanTransition reports whether moving from one status to another is
// legal. Publishing may fall back to awaiting_decision when the publish
// attempt fails.
func CanTransition(from, to ai.Status) bool {
	if to == ai.StatusFailed {
		return !from.Terminal()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

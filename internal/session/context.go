// Package session tracks per-conversation state for the campus assistant:
// the immutable per-turn [Context] record and a [Manager] that owns the
// lifecycle of many concurrent conversation sessions.
package session

import (
	"github.com/kabalen/tanong/internal/lexicon"
	"github.com/kabalen/tanong/internal/nlu"
)

// Context is the per-session conversation record: the last classified
// intent, the entities accumulated across turns, and the turn count.
// It is a value type; [Update] produces a new Context rather than mutating
// the old one, so callers own persistence between turns.
type Context struct {
	// LastIntent is the intent of the most recent turn; empty before the
	// first turn.
	LastIntent lexicon.Intent

	// Entities is the cumulative entity bag, merged turn over turn with
	// new values winning on type collision.
	Entities nlu.EntityBag

	// TurnCount is the number of completed turns in this session.
	TurnCount int
}

// NewContext returns the empty context a session starts with.
func NewContext() Context {
	return Context{Entities: nlu.EntityBag{}}
}

// TurnResult carries the per-turn outputs the context tracker folds in.
type TurnResult struct {
	Intent   lexicon.Intent
	Entities nlu.EntityBag
}

// Update folds one turn into ctx and returns the successor context. The
// inputs are not modified.
func Update(ctx Context, turn TurnResult) Context {
	return Context{
		LastIntent: turn.Intent,
		Entities:   ctx.Entities.Merge(turn.Entities),
		TurnCount:  ctx.TurnCount + 1,
	}
}

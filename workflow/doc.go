// Package workflow orchestrates the post generation lifecycle.
//
// A session moves through a fixed state machine:
//
//	drafting -> awaiting_decision
//	awaiting_decision -> revising   (decision: request changes)
//	awaiting_decision -> publishing (decision: approve)
//	revising -> awaiting_decision
//	publishing -> done
//	any non-terminal -> failed
//
// The engine exposes two operations. Generate creates a session and
// produces its first draft. Decide resolves a pending draft, either
// approving it (image retry, then publish) or sending it back for a
// bounded number of revisions. Sessions are persisted before either
// operation returns, and at most one operation may be in flight per
// session at a time.
package workflow

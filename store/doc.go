// Package store persists workflow sessions.
//
// The in-memory store serves tests and single-process development. The
// SQLite store, backed by GORM, survives restarts and is the one the
// server runs with. Both guarantee the same contract: a session handed
// back by Get is a copy, and a write is durable before the call returns.
package store

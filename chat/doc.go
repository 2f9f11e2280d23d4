// Package chat drives conversation state: the streaming session
// controller for live runs, and the rehydration resolver for
// reconstructing persisted conversations.
//
// Both paths converge on the same session store and transcript
// contracts. The live path decodes stream events and applies their
// effects incrementally; the cold path fetches the canonical snapshot
// and the persisted display log concurrently and commits both
// atomically. Effects from a run are guarded by the run's bound thread
// identifier, so events that arrive after a conversation switch are
// discarded rather than corrupting the new session.
package chat

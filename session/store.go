// Package session holds the in-memory agent state for one conversation
// thread: an ordered canonical message log mutated only through
// well-defined event effects.
package session

import (
	"github.com/spetersoncode/strand"
)

// Store is the canonical message log for one agent session.
//
// The store is exclusively owned by its Session and follows the
// single-threaded event-loop model: it is not safe for concurrent use.
type Store struct {
	messages []strand.Message

	// streamingID names the in-progress assistant message for the
	// active run; empty when no assistant turn is streaming.
	streamingID string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll fully replaces the log, swapping the slice reference.
// Used by messages-snapshot events and by rehydration. The caller must
// not retain or mutate the passed slice. Any in-progress assistant turn
// is forgotten: the snapshot is authoritative.
func (s *Store) ReplaceAll(messages []strand.Message) {
	s.messages = messages
	s.streamingID = ""
}

// Append adds one message to the end of the log. Used for the user's
// optimistic prompt message.
func (s *Store) Append(msg strand.Message) {
	s.messages = append(s.messages, msg)
}

// BeginAssistant opens the in-progress assistant turn for the active
// run by appending an empty assistant message with the given ID.
// Returns InvalidStateTransitionError if a turn is already streaming.
func (s *Store) BeginAssistant(id string) error {
	if s.streamingID != "" {
		return &strand.InvalidStateTransitionError{
			Op:     "BeginAssistant",
			Reason: "an assistant turn is already in progress",
		}
	}
	s.messages = append(s.messages, strand.Message{ID: id, Role: strand.RoleAssistant})
	s.streamingID = id
	return nil
}

// AppendDelta appends text to the last message in the log. The last
// message must be the in-progress assistant turn for the active run;
// anything else is a programming-contract violation and returns
// InvalidStateTransitionError. Deltas are never silently dropped.
func (s *Store) AppendDelta(text string) error {
	if s.streamingID == "" {
		return &strand.InvalidStateTransitionError{
			Op:     "AppendDelta",
			Reason: "no in-progress assistant message",
		}
	}
	last := len(s.messages) - 1
	if last < 0 || s.messages[last].ID != s.streamingID || s.messages[last].Role != strand.RoleAssistant {
		return &strand.InvalidStateTransitionError{
			Op:     "AppendDelta",
			Reason: "last message is not the in-progress assistant turn",
		}
	}
	s.messages[last].Content += text
	return nil
}

// FinishAssistant closes the in-progress assistant turn, if any.
func (s *Store) FinishAssistant() {
	s.streamingID = ""
}

// Streaming reports whether an assistant turn is in progress.
func (s *Store) Streaming() bool {
	return s.streamingID != ""
}

// Messages returns the log in insertion order. The returned slice is a
// copy; callers must not rely on it aliasing the store.
func (s *Store) Messages() []strand.Message {
	out := make([]strand.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	return len(s.messages)
}

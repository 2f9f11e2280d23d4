package session

// Session binds one thread identifier to one agent state store. Exactly
// one session is current at any time; switching conversations retires
// the old session (its in-memory log is discarded, not the stored copy)
// and constructs a new one. The thread ID is immutable for the lifetime
// of the session.
type Session struct {
	threadID string
	store    *Store
}

// New creates a session for the given thread with an empty store.
func New(threadID string) *Session {
	return &Session{
		threadID: threadID,
		store:    NewStore(),
	}
}

// ThreadID returns the thread identifier this session is bound to.
func (s *Session) ThreadID() string {
	return s.threadID
}

// Store returns the session's canonical message log.
func (s *Session) Store() *Store {
	return s.store
}

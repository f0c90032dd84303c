package session

import "sync"

// Store maps channel IDs to their sessions. It is an injected dependency
// rather than a package global so tests get clean isolation and a persistent
// backing store can be swapped in later without touching callers.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for channelID, creating it lazily on the
// first interaction.
func (st *Store) GetOrCreate(channelID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[channelID]
	if !ok {
		s = &Session{}
		st.sessions[channelID] = s
	}
	return s
}

// Len returns the number of known sessions. Used by metrics and tests.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

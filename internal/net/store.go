package net

// SessionStore tracks live sessions for the input system.
// Game-loop goroutine only — no locks needed.
type SessionStore struct {
	sessions map[uint64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uint64]*Session)}
}

func (s *SessionStore) Add(sess *Session) {
	s.sessions[sess.ID] = sess
}

func (s *SessionStore) Remove(id uint64) *Session {
	sess := s.sessions[id]
	delete(s.sessions, id)
	return sess
}

func (s *SessionStore) Get(id uint64) *Session {
	return s.sessions[id]
}

// Raw exposes the underlying map for tick iteration.
func (s *SessionStore) Raw() map[uint64]*Session {
	return s.sessions
}

func (s *SessionStore) Count() int {
	return len(s.sessions)
}

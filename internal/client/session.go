package client

import "sync"

// Session holds the credentials attached to every request. A 401 from
// the server invalidates it.
type Session struct {
	mu           sync.RWMutex
	token        string
	email        string
	onInvalidate func()
}

// NewSession creates a session. onInvalidate may be nil.
func NewSession(token, email string, onInvalidate func()) *Session {
	return &Session{token: token, email: email, onInvalidate: onInvalidate}
}

// Token returns the bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email returns the account the session belongs to.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Set stores fresh credentials.
func (s *Session) Set(token, email string) {
	s.mu.Lock()
	s.token, s.email = token, email
	s.mu.Unlock()
}

// Valid reports whether the session carries a token.
func (s *Session) Valid() bool {
	return s.Token() != ""
}

// Invalidate clears the credentials and fires the callback once per
// logged-in session.
func (s *Session) Invalidate() {
	s.mu.Lock()
	had := s.token != ""
	s.token, s.email = "", ""
	cb := s.onInvalidate
	s.mu.Unlock()

	if had && cb != nil {
		cb()
	}
}

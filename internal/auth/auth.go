// Package auth authenticates staff members against a flat allow-list
// and tracks session tokens in memory.
package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Account is one allow-list entry.
type Account struct {
	ID       string
	Username string
	Password string
	Name     string
}

// Credentials identifies an authenticated staff member.
type Credentials struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Service resolves logins and tracks issued session tokens.
type Service struct {
	accounts []Account

	mu       sync.RWMutex
	sessions map[string]Credentials
}

// NewService creates a service over the given allow-list.
func NewService(accounts []Account) *Service {
	return &Service{
		accounts: accounts,
		sessions: make(map[string]Credentials),
	}
}

// Authenticate checks username and password against the allow-list.
// On success it issues a session token; on failure ok is false and no
// error is raised.
func (s *Service) Authenticate(username, password string) (token string, creds Credentials, ok bool) {
	for _, acc := range s.accounts {
		if acc.Username == username && acc.Password == password {
			creds = Credentials{ID: acc.ID, Username: acc.Username, Name: acc.Name}
			token = uuid.NewString()

			s.mu.Lock()
			s.sessions[token] = creds
			s.mu.Unlock()
			return token, creds, true
		}
	}
	return "", Credentials{}, false
}

// IsAuthenticated reports whether the token belongs to a live session.
func (s *Service) IsAuthenticated(token string) bool {
	_, ok := s.Session(token)
	return ok
}

// Session returns the credentials behind a token.
func (s *Service) Session(token string) (Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.sessions[token]
	return creds, ok
}

// Logout invalidates a session token.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

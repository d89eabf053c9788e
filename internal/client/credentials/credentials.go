// Package credentials persists the opaque bearer token that identifies
// the current session to the backend. Presence of a token does not mean
// it is still valid; the session store checks that once at startup.
package credentials

import (
	"os"
	"strings"
	"sync"
)

// Store keeps the bearer credential in a single file on disk so it
// survives restarts. The zero value is not usable; construct with New.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the token to disk, replacing any previous one.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte(token), 0600)
}

// Load returns the stored token and true, or "" and false when no
// credential is stored. Read errors other than absence are treated as
// absence: the client simply starts anonymous.
func (s *Store) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the stored token. Removing an absent token is not an
// error.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.path)
}

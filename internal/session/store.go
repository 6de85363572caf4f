// Package session persists the authenticated identity between CLI runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Profile is the user record returned by the backend on login.
type Profile struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// Session is the bearer token plus the profile it was issued for.
type Session struct {
	Token string  `json:"access_token"`
	User  Profile `json:"user"`
}

// DisplayName returns the best identity label for the user.
func (s *Session) DisplayName() string {
	if s.User.Email != "" {
		return s.User.Email
	}
	if s.User.Username != "" {
		return s.User.Username
	}
	return "User"
}

// Store reads and writes the session record at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted session, or nil when anonymous.
// A malformed record is torn down and reported as anonymous: a partial
// session must never leak a token into requests.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		_ = s.Clear()
		return nil, nil
	}
	return &sess, nil
}

// Save persists the token and profile together. The write goes through a
// temp file and rename so a reader never observes one without the other.
func (s *Store) Save(sess *Session) error {
	if sess == nil || sess.Token == "" {
		return fmt.Errorf("save session: empty token")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Idempotent: a 401 teardown may race
// a health probe and both are allowed to clear.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// package session holds the authenticated user's identity and tokens for the
// lifetime of a console run, persisted to a JSON file so a session survives
// process restarts.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/roosthq/roost/internal/models"
	"golang.org/x/oauth2"
)

// state is the on-disk shape of a persisted session. Storage is best effort:
// a missing or corrupted file degrades to an unauthenticated session rather
// than erroring.
type state struct {
	Token   *oauth2.Token   `json:"token,omitempty"`
	Profile *models.Profile `json:"profile,omitempty"`
}

// Store keeps the bearer token and minimal user profile in memory and mirrors
// them to durable storage. It is safe for concurrent use: every outgoing
// request reads it, while writes happen only on login, refresh and logout.
type Store struct {
	mu    sync.RWMutex
	path  string
	token *oauth2.Token
	user  *models.Profile
}

// NewStore creates a session store backed by the file at path. An empty path
// defaults to $HOME/.roost/session.json.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".roost", "session.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &Store{path: path}, nil
}

// Load restores a previously persisted session into memory without contacting
// the server; the stored token is trusted until a request fails. Reports
// whether a token was found.
func (s *Store) Load() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil || st.Token == nil || st.Token.AccessToken == "" {
		return false
	}

	s.token = st.Token
	s.user = st.Profile
	return true
}

// Set stores a new token and profile and persists them.
func (s *Store) Set(token *oauth2.Token, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = profile
	return s.persist()
}

// UpdateToken replaces the token after a successful refresh, keeping the
// current profile.
func (s *Store) UpdateToken(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	return s.persist()
}

// Clear tears the session down, wiping both memory and durable storage.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.user = nil
	_ = os.Remove(s.path)
}

// Token returns the current bearer token, or nil when unauthenticated.
func (s *Store) Token() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// AccessToken returns the current access token string, empty when
// unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// RefreshToken returns the stored refresh token, empty when absent.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.RefreshToken
}

// Profile returns the stored user profile, or nil when unauthenticated.
func (s *Store) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.token.AccessToken != ""
}

// persist writes the current state to disk. Caller holds the lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(state{Token: s.token, Profile: s.user}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

package freebox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the session cookie between process invocations.
//
// The token is an opaque "name=value" cookie blob. It is overwritten on
// every successful login and never explicitly deleted; a stale token is
// simply rejected by the router and replaced on the next login. Two
// concurrent invocations racing on the file is a known, accepted
// limitation: the loser re-authenticates once more than necessary.
type TokenStore struct {
	// path is the token file location.
	path string
}

// NewTokenStore creates a TokenStore backed by the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns the persisted token, or the empty string if none exists.
// A missing file is not an error: it is the normal first-run state.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save persists the token, overwriting any prior value.
// The file is 0600: the cookie grants admin access to the router.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write session token: %w", err)
	}
	return nil
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Package auth stores the backend session token. The web frontend kept the
// token in browser storage and redirected on sign-out; here that becomes an
// explicit Session capability over a filesystem, so command code never
// touches globals and tests can run against an in-memory FS.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// sessionFileName is the token file under the config directory.
const sessionFileName = "session.json"

// Session is the capability commands need: read the current token, install
// a new one, or clear it.
type Session interface {
	Token() (string, bool)
	SignIn(token string) error
	SignOut() error
}

// sessionFile is what gets persisted.
type sessionFile struct {
	Token      string    `json:"token"`
	SavedAt    time.Time `json:"saved_at"`
	BackendURL string    `json:"backend_url,omitempty"`
}

// FileSession stores the token as a JSON file with owner-only permissions.
type FileSession struct {
	fs  afero.Fs
	dir string
	url string
}

var _ Session = (*FileSession)(nil)

// NewFileSession returns a session store rooted at dir (usually the omoictl
// config directory). backendURL is recorded alongside the token so a stale
// token against a different deployment is detectable.
func NewFileSession(fs afero.Fs, dir, backendURL string) *FileSession {
	return &FileSession{fs: fs, dir: dir, url: backendURL}
}

// DefaultDir returns the per-user config directory (~/.omoictl).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".omoictl"), nil
}

// Token returns the stored token, if any.
func (s *FileSession) Token() (string, bool) {
	raw, err := afero.ReadFile(s.fs, filepath.Join(s.dir, sessionFileName))
	if err != nil {
		return "", false
	}
	var f sessionFile
	if err := json.Unmarshal(raw, &f); err != nil || f.Token == "" {
		return "", false
	}
	if s.url != "" && f.BackendURL != "" && f.BackendURL != s.url {
		return "", false
	}
	return f.Token, true
}

// SignIn persists a new token, replacing any existing session.
func (s *FileSession) SignIn(token string) error {
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := json.MarshalIndent(sessionFile{
		Token:      token,
		SavedAt:    time.Now().UTC(),
		BackendURL: s.url,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, sessionFileName), raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// SignOut removes the stored token. Removing a session that does not exist
// is not an error.
func (s *FileSession) SignOut() error {
	err := s.fs.Remove(filepath.Join(s.dir, sessionFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

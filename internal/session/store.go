// Package session persists the authenticated identity between runs.
// The store keeps two entries, a session document and the raw bearer
// token, and notifies subscribers whenever either changes.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const (
	sessionFile = "session.json"
	tokenFile   = "token"
)

// Session is the client-held record of who is logged in.
// It is replaced wholesale on every save, never patched in place.
type Session struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Credits  int    `json:"credits"`
	Token    string `json:"token"`
}

// Store reads and writes the session under a single directory.
type Store struct {
	fs  afero.Fs
	dir string

	mu   sync.Mutex
	subs []func(Session, bool)
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Subscribe registers fn to run after every Save (ok=true) and Clear
// (ok=false). Callbacks run synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(Session, bool)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Save persists the full session, overwriting any prior value.
func (s *Store) Save(sess Session) error {
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, sessionFile), b, 0o600); err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, tokenFile), []byte(sess.Token), 0o600); err != nil {
		return err
	}
	s.notify(sess, true)
	return nil
}

// Load returns the stored session. Anything unreadable or unparseable
// counts as "no session".
func (s *Store) Load() (Session, bool) {
	b, err := afero.ReadFile(s.fs, filepath.Join(s.dir, sessionFile))
	if err != nil {
		return Session{}, false
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, false
	}
	if sess.Username == "" || sess.Token == "" {
		return Session{}, false
	}
	return sess, true
}

// Clear removes both entries. Absence is not an error.
func (s *Store) Clear() error {
	var first error
	for _, name := range []string{sessionFile, tokenFile} {
		if err := s.fs.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			if first == nil {
				first = err
			}
		}
	}
	s.notify(Session{}, false)
	return first
}

func (s *Store) notify(sess Session, ok bool) {
	s.mu.Lock()
	subs := make([]func(Session, bool), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(sess, ok)
	}
}

// DefaultDir returns the per-user state directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pixlab"), nil
}

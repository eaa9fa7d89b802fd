// Package session tests cover persistence, tolerant loading, and
// subscriber notification.
package session

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// TestSaveLoadRoundTrip confirms a saved session loads back intact.
func TestSaveLoadRoundTrip(t *testing.T) {
	st := NewStore(afero.NewMemMapFs(), "/state")
	in := Session{Username: "alice", IsAdmin: true, Credits: 1000, Token: "tok"}
	if err := st.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, ok := st.Load()
	if !ok {
		t.Fatalf("expected a session")
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

// TestLoadMissing confirms an empty store reports no session.
func TestLoadMissing(t *testing.T) {
	st := NewStore(afero.NewMemMapFs(), "/state")
	if _, ok := st.Load(); ok {
		t.Fatalf("expected no session")
	}
}

// TestLoadCorrupt confirms unparseable state counts as no session.
func TestLoadCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, filepath.Join("/state", "session.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	st := NewStore(fs, "/state")
	if _, ok := st.Load(); ok {
		t.Fatalf("expected corrupt state to read as no session")
	}
}

// TestClearRemovesBothEntries confirms Clear drops the session and the
// raw token together, and tolerates absence.
func TestClearRemovesBothEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	st := NewStore(fs, "/state")
	if err := st.Save(Session{Username: "alice", Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, name := range []string{"session.json", "token"} {
		exists, _ := afero.Exists(fs, filepath.Join("/state", name))
		if exists {
			t.Fatalf("%s still present after Clear", name)
		}
	}
	// Clearing again must not fail.
	if err := st.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

// TestSubscribeNotifies confirms subscribers see saves and clears.
func TestSubscribeNotifies(t *testing.T) {
	st := NewStore(afero.NewMemMapFs(), "/state")
	var events []bool
	var last Session
	st.Subscribe(func(s Session, ok bool) {
		events = append(events, ok)
		last = s
	})

	if err := st.Save(Session{Username: "alice", Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(events) != 1 || !events[0] || last.Username != "alice" {
		t.Fatalf("unexpected save notification: %v %+v", events, last)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(events) != 2 || events[1] || last.Username != "" {
		t.Fatalf("unexpected clear notification: %v %+v", events, last)
	}
}

// TestTokenFileMirrorsSession confirms the raw token entry tracks the
// session document.
func TestTokenFileMirrorsSession(t *testing.T) {
	fs := afero.NewMemMapFs()
	st := NewStore(fs, "/state")
	if err := st.Save(Session{Username: "alice", Token: "tok-raw"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := afero.ReadFile(fs, filepath.Join("/state", "token"))
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if string(b) != "tok-raw" {
		t.Fatalf("token file = %q", b)
	}
}

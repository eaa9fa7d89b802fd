// Package app tests cover the wiring between the store and the client.
package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixlab/internal/session"
)

// TestClientTokenTracksStore confirms the store subscription arms and
// disarms the client's bearer token on save and clear.
func TestClientTokenTracksStore(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]bool{"valid": true})
	}))
	defer srv.Close()

	t.Setenv("PIXLAB_ADDR", srv.URL)
	t.Setenv("PIXLAB_STATE_DIR", t.TempDir())
	t.Setenv("PIXLAB_OUTPUT_DIR", t.TempDir())

	a, err := Load(Options{Quiet: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer a.Close()

	if err := a.Store.Save(session.Session{Username: "alice", Token: "tok77"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := a.Client.VerifyToken(); err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if err := a.Store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := a.Client.VerifyToken(); err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if len(auth) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(auth))
	}
	if auth[0] != "Bearer tok77" {
		t.Fatalf("token not armed after Save: %q", auth[0])
	}
	if auth[1] != "" {
		t.Fatalf("token not disarmed after Clear: %q", auth[1])
	}
}

// Package config tests validate loading, defaults, and env overrides.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadAppliesDefaults confirms defaults are applied on load.
func TestLoadAppliesDefaults(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "pixlab.yaml")
	if err := os.WriteFile(p, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != "http://127.0.0.1:5000" {
		t.Fatalf("expected default server.addr, got %q", c.Server.Addr)
	}
	if c.Server.TimeoutSeconds != 20 {
		t.Fatalf("expected default timeout 20, got %d", c.Server.TimeoutSeconds)
	}
	if c.Verify.IntervalSeconds != 300 {
		t.Fatalf("expected default verify interval 300, got %d", c.Verify.IntervalSeconds)
	}
	if c.Log.Level != "debug" {
		t.Fatalf("expected file value to survive, got %q", c.Log.Level)
	}
	if c.Output.Dir == "" || c.State.Dir == "" {
		t.Fatalf("expected directory defaults")
	}
}

// TestLoadMissingExplicitFile confirms a named but absent file errors.
func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}

// TestEnvOverrides confirms PIXLAB_* variables beat the file.
func TestEnvOverrides(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "pixlab.yaml")
	if err := os.WriteFile(p, []byte("server:\n  addr: http://file.example:1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PIXLAB_ADDR", "http://env.example:2")
	t.Setenv("PIXLAB_STATE_DIR", "/env/state")
	t.Setenv("PIXLAB_INSECURE", "true")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != "http://env.example:2" {
		t.Fatalf("addr override lost: %q", c.Server.Addr)
	}
	if c.State.Dir != "/env/state" {
		t.Fatalf("state dir override lost: %q", c.State.Dir)
	}
	if !c.Server.Insecure {
		t.Fatalf("insecure override lost")
	}
}

// TestValidateRejectsBadValues covers the sanity checks.
func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad addr", "server:\n  addr: '::: nope'\n"},
		{"bad timeout", "server:\n  timeout_seconds: -1\n"},
		{"bad interval", "verify:\n  interval_seconds: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "pixlab.yaml")
			if err := os.WriteFile(p, []byte(tt.yaml), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(p); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

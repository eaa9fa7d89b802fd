// Package validate tests cover the client-side form checks.
package validate

import (
	"errors"
	"testing"
)

// TestUsername checks the allowed username shapes.
func TestUsername(t *testing.T) {
	for _, ok := range []string{"alice", "a", "user.name-2_x"} {
		if err := Username(ok); err != nil {
			t.Fatalf("Username(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", ".dot", "has space", "a/b"} {
		if err := Username(bad); err == nil {
			t.Fatalf("Username(%q): expected error", bad)
		}
	}
}

// TestPasswordPair checks the register form's local equality check.
func TestPasswordPair(t *testing.T) {
	if err := PasswordPair("pw", "pw"); err != nil {
		t.Fatalf("matching pair: %v", err)
	}
	if err := PasswordPair("pw", "other"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := PasswordPair("", ""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

// TestRatio checks the upscale ratio whitelist.
func TestRatio(t *testing.T) {
	for _, ok := range []int{2, 4} {
		if err := Ratio(ok); err != nil {
			t.Fatalf("Ratio(%d): %v", ok, err)
		}
	}
	for _, bad := range []int{0, 1, 3, 8} {
		if err := Ratio(bad); err == nil {
			t.Fatalf("Ratio(%d): expected error", bad)
		}
	}
}

// TestGenerateBounds checks the generator form limits.
func TestGenerateBounds(t *testing.T) {
	good := GenerateBounds{SamplingSteps: 20, Width: 512, Height: 512, BatchCount: 4, BatchSize: 1, CFGScale: 12}
	if err := Generate(good); err != nil {
		t.Fatalf("Generate(good): %v", err)
	}
	bads := []GenerateBounds{
		{SamplingSteps: 0, Width: 512, Height: 512, BatchCount: 4, BatchSize: 1, CFGScale: 12},
		{SamplingSteps: 20, Width: 32, Height: 512, BatchCount: 4, BatchSize: 1, CFGScale: 12},
		{SamplingSteps: 20, Width: 512, Height: 4096, BatchCount: 4, BatchSize: 1, CFGScale: 12},
		{SamplingSteps: 20, Width: 512, Height: 512, BatchCount: 0, BatchSize: 1, CFGScale: 12},
		{SamplingSteps: 20, Width: 512, Height: 512, BatchCount: 4, BatchSize: 1, CFGScale: 99},
	}
	for i, b := range bads {
		if err := Generate(b); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

// TestCredits rejects negative balances.
func TestCredits(t *testing.T) {
	if err := Credits(0); err != nil {
		t.Fatalf("Credits(0): %v", err)
	}
	if err := Credits(-1); err == nil {
		t.Fatalf("Credits(-1): expected error")
	}
}

// Package validate contains client-side input validation helpers.
// These run before any network call; the server remains authoritative.
package validate

import (
	"errors"
	"regexp"
)

// usernameRe enforces a conservative username pattern.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

// ErrPasswordMismatch is the fixed error shown when the two password
// fields of the register form differ.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Username validates a username string for length and allowed characters.
func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return errors.New("invalid username")
	}
	return nil
}

// PasswordPair checks the register form's password and confirmation.
// A mismatch short-circuits registration with zero API calls.
func PasswordPair(password, confirm string) error {
	if password == "" {
		return errors.New("password is required")
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// Credits validates a credit balance entered in the admin panel.
func Credits(n int) error {
	if n < 0 {
		return errors.New("credits cannot be negative")
	}
	return nil
}

// Ratio validates an upscale ratio.
func Ratio(n int) error {
	if n != 2 && n != 4 {
		return errors.New("ratio must be 2 or 4")
	}
	return nil
}

// GenerateBounds mirrors the generator form's slider limits.
type GenerateBounds struct {
	SamplingSteps int
	Width         int
	Height        int
	BatchCount    int
	BatchSize     int
	CFGScale      int
}

// Generate validates generator settings against the form limits.
func Generate(b GenerateBounds) error {
	if b.SamplingSteps < 1 || b.SamplingSteps > 50 {
		return errors.New("sampling steps must be 1-50")
	}
	if b.Width < 64 || b.Width > 2048 {
		return errors.New("width must be 64-2048")
	}
	if b.Height < 64 || b.Height > 2048 {
		return errors.New("height must be 64-2048")
	}
	if b.BatchCount < 1 || b.BatchCount > 16 {
		return errors.New("batch count must be 1-16")
	}
	if b.BatchSize < 1 || b.BatchSize > 8 {
		return errors.New("batch size must be 1-8")
	}
	if b.CFGScale < 1 || b.CFGScale > 30 {
		return errors.New("cfg scale must be 1-30")
	}
	return nil
}

// Package guard decides whether a screen may be entered and keeps an
// authenticated session honest with a periodic server-side token check.
package guard

import (
	"sync"
	"time"
)

// Decision is the outcome of an admission check.
type Decision int

const (
	// Allow admits the navigation.
	Allow Decision = iota
	// RedirectLogin denies for lack of a session.
	RedirectLogin
	// RedirectHome denies an admin-only screen to a non-admin.
	RedirectHome
)

// Admit gates a navigation attempt. The two gates compose: session
// presence first, then the admin flag when the target requires it.
func Admit(haveSession, isAdmin, needAdmin bool) Decision {
	if !haveSession {
		return RedirectLogin
	}
	if needAdmin && !isAdmin {
		return RedirectHome
	}
	return Allow
}

// TokenVerifier is the slice of the API client the verifier needs.
type TokenVerifier interface {
	VerifyToken() (bool, error)
}

// DefaultInterval is how often a mounted guarded view re-validates.
const DefaultInterval = 5 * time.Minute

// Verifier re-validates the held token: once immediately on Start, then
// on a fixed interval until stopped or until a check fails. A failed or
// errored check closes Expired and ends the loop; the owner clears the
// session and renders the redirect on its next update.
type Verifier struct {
	client   TokenVerifier
	interval time.Duration

	expired  chan struct{}
	finished chan struct{}
	done     chan struct{}
	expOnce  sync.Once
	stop     sync.Once
}

func NewVerifier(c TokenVerifier, interval time.Duration) *Verifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Verifier{
		client:   c,
		interval: interval,
		expired:  make(chan struct{}),
		finished: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Expired is closed once the token is found invalid or a check errors.
func (v *Verifier) Expired() <-chan struct{} {
	return v.expired
}

// Finished is closed when the check loop exits for any reason, expiry
// or Stop. Waiters that select on Expired also select on Finished so a
// plain Stop does not strand them.
func (v *Verifier) Finished() <-chan struct{} {
	return v.finished
}

// Start launches the recurring check. Call it at most once.
func (v *Verifier) Start() {
	go func() {
		defer close(v.finished)
		if !v.check() {
			return
		}
		t := time.NewTicker(v.interval)
		defer t.Stop()
		for {
			select {
			case <-v.done:
				return
			case <-t.C:
				if !v.check() {
					return
				}
			}
		}
	}()
}

// Stop tears the loop down and returns immediately; an in-flight check
// may still be waiting on the network and drains on its own, closing
// Finished when it does. Safe to call more than once, and safe to call
// whether or not the verifier already expired.
func (v *Verifier) Stop() {
	v.stop.Do(func() { close(v.done) })
}

func (v *Verifier) check() bool {
	valid, err := v.client.VerifyToken()
	if err != nil || !valid {
		v.expOnce.Do(func() { close(v.expired) })
		return false
	}
	return true
}

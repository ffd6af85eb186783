package trivia

import (
	"sync"
	"time"
)

// AdvanceTimer fires a callback after a fixed delay unless stopped. It backs
// the auto-advance to the next turn after a successful answer submission and
// is tied to the owning session's lifetime: stopping it guarantees the
// callback never mutates a torn-down session. Safe for concurrent use.
type AdvanceTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewAdvanceTimer creates and starts a timer that calls onFire after delay.
// onFire is called in a separate goroutine.
//
// Precondition: delay > 0; onFire must not be nil.
// Postcondition: Returns a running AdvanceTimer; onFire will be called
// unless Stop is called first.
func NewAdvanceTimer(delay time.Duration, onFire func()) *AdvanceTimer {
	at := &AdvanceTimer{}
	at.timer = time.AfterFunc(delay, func() {
		at.mu.Lock()
		stopped := at.stopped
		at.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return at
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (at *AdvanceTimer) Stop() {
	at.mu.Lock()
	defer at.mu.Unlock()
	at.stopped = true
	at.timer.Stop()
}

// Package watcher detects external changes to watched files by combining
// OS file-change notifications with checksum verification.
package watcher

import (
	"sync"
	"time"
)

// delayTimer is a restartable single-shot timer.
// Arming an already-armed timer restarts the countdown, so rapid arms
// coalesce into a single firing. Unlike time.Timer, Active answers
// reliably whether a firing is still pending.
type delayTimer struct {
	mu     sync.Mutex
	delay  time.Duration
	fn     func()
	timer  *time.Timer
	active bool
}

func newDelayTimer(delay time.Duration, fn func()) *delayTimer {
	return &delayTimer{delay: delay, fn: fn}
}

// Arm starts the timer, restarting the countdown if it is already running.
func (d *delayTimer) Arm() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.active = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Stop cancels a pending firing. No-op if the timer is not armed.
func (d *delayTimer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.active = false
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Active reports whether a firing is pending.
func (d *delayTimer) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *delayTimer) fire() {
	d.mu.Lock()
	// Stop may have lost the race with AfterFunc; honor it here.
	if !d.active {
		d.mu.Unlock()
		return
	}
	d.active = false
	d.mu.Unlock()

	// Invoke the callback outside the lock to avoid re-arm deadlocks.
	d.fn()
}

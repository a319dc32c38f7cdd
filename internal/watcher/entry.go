package watcher

import (
	"sync"
	"time"

	"vigil/internal/checksum"
)

// entry tracks a single watched path. It owns the path's last known
// checksum, its suppression state, and the timers that debounce change
// emission and guard the post-resume window.
//
// An entry moves through five informal states: idle, check in flight,
// change debouncing, suppressed, and stopped. Raw notifications and poll
// ticks both funnel into check; everything downstream of the digest
// comparison is driven by the entry's own timers.
type entry struct {
	path  string
	limit int64

	mu         sync.Mutex
	sum        []byte
	suppressed bool
	checking   bool
	stopped    bool

	changeDelay *delayTimer
	resumeGrace *delayTimer
	pollDone    chan struct{}

	notify func(path string)
}

// newEntry creates the entry and takes the baseline digest synchronously,
// so the first change after registration is detected correctly. If the
// baseline read fails the digest starts empty and the next successful
// check reports a change.
func newEntry(path string, limit int64, debounce, grace time.Duration, notify func(string)) *entry {
	e := &entry{
		path:   path,
		limit:  limit,
		notify: notify,
	}
	e.changeDelay = newDelayTimer(debounce, e.emit)
	// The grace timer carries no action; only its pending state matters.
	e.resumeGrace = newDelayTimer(grace, func() {})
	e.sum = checksum.File(path, limit, nil)
	return e
}

// check reacts to a raw notification or poll tick. The digest is computed
// on a separate goroutine so slow filesystems never stall event routing;
// at most one computation per entry is in flight at a time.
func (e *entry) check() {
	e.mu.Lock()
	if e.shouldIgnoreLocked() {
		e.mu.Unlock()
		return
	}
	e.checking = true
	prev := e.sum
	e.mu.Unlock()

	go func() {
		sum := checksum.File(e.path, e.limit, prev)

		e.mu.Lock()
		defer e.mu.Unlock()
		e.checking = false
		// The entry may have been stopped or paused while the digest was
		// being computed; a stale result must not cause a transition.
		if e.stopped || e.suppressed {
			return
		}
		if !checksum.Equal(sum, e.sum) {
			e.sum = sum
			e.changeDelay.Arm()
		}
	}()
}

// shouldIgnoreLocked mirrors the suppression conditions: stopped entries,
// paused entries, the post-resume grace window, an in-flight check, and a
// change already waiting out its debounce window all swallow new triggers.
func (e *entry) shouldIgnoreLocked() bool {
	return e.stopped || e.suppressed || e.checking ||
		e.resumeGrace.Active() || e.changeDelay.Active()
}

// emit runs when the debounce window elapses.
func (e *entry) emit() {
	e.mu.Lock()
	if e.stopped || e.suppressed {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.notify(e.path)
}

// pause discards all notifications for the path until resume. A pending
// debounced emission is cancelled rather than delivered.
func (e *entry) pause() {
	e.mu.Lock()
	e.suppressed = true
	e.mu.Unlock()
	e.changeDelay.Stop()
}

// resume lifts suppression after a short grace window. The write that
// caused the pause may still be working its way through the OS
// notification queue, so notifications are ignored for a little longer
// rather than immediately trusted again.
func (e *entry) resume() {
	e.mu.Lock()
	e.suppressed = false
	e.mu.Unlock()
	if !e.resumeGrace.Active() {
		e.resumeGrace.Arm()
	}
}

// startPolling re-checks the path on a fixed cadence, independent of OS
// notifications. Used for filesystems where notification delivery is
// unreliable, or whenever the caller asks for it.
func (e *entry) startPolling(interval time.Duration) {
	e.pollDone = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-e.pollDone:
				return
			case <-ticker.C:
				e.check()
			}
		}
	}()
}

// stop makes the entry terminal: timers cancelled, polling shut down, any
// in-flight digest result discarded on arrival.
func (e *entry) stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	pollDone := e.pollDone
	e.pollDone = nil
	e.mu.Unlock()

	e.changeDelay.Stop()
	e.resumeGrace.Stop()
	if pollDone != nil {
		close(pollDone)
	}
}

// hasSameChecksum recomputes the digest immediately and compares it to the
// stored baseline. A read failure compares the baseline against itself and
// reports no difference, consistent with the transient-failure policy.
func (e *entry) hasSameChecksum() bool {
	e.mu.Lock()
	prev := e.sum
	e.mu.Unlock()
	return checksum.Equal(checksum.File(e.path, e.limit, prev), prev)
}

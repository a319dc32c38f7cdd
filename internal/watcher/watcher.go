package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultNetworkPollInterval is used when a path sits on a network mount
// and the caller did not request polling. Notification delivery over
// network filesystems is best effort at most, so the digest is re-checked
// periodically regardless.
const defaultNetworkPollInterval = 30 * time.Second

// Config contains watcher-wide settings shared by all entries.
type Config struct {
	// Debounce is the quiet period after a confirmed change before the
	// notification is emitted. Editors that save via write-temp-then-rename
	// fire several OS events for one logical save; the debounce collapses
	// them into a single emission.
	Debounce time.Duration

	// ResumeGrace is how long notifications stay ignored after Resume.
	// Best effort: it must outlast the OS's delivery of the notification
	// for the write that caused the pause, which has no hard bound.
	ResumeGrace time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debounce:    100 * time.Millisecond,
		ResumeGrace: 100 * time.Millisecond,
	}
}

// Options contains per-path settings for AddPath.
type Options struct {
	// PollInterval enables periodic digest re-checks independent of OS
	// notifications. Zero disables polling unless the path resides on a
	// network filesystem, in which case a default interval is applied.
	PollInterval time.Duration

	// ChecksumLimit caps how many bytes of the file are hashed.
	// Zero or negative hashes the whole file.
	ChecksumLimit int64
}

// Watcher watches files for changes made by other processes. Raw OS
// notifications are verified against a content digest before anything is
// reported, so spurious events (metadata touches, duplicate notifications)
// stay silent, and Pause/Resume keeps the owner's own writes from being
// reported as external changes.
type Watcher struct {
	config *Config

	mu      sync.Mutex
	entries map[string]*entry
	dirRefs map[string]int
	closed  bool

	subMu       sync.RWMutex
	subscribers []func(path string)

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher and starts its event routing loop.
// If config is nil, default configuration is used.
func New(config *Config) (*Watcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:    config,
		entries:   make(map[string]*entry),
		dirRefs:   make(map[string]int),
		fsWatcher: fs,
		done:      make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processEvents()

	return w, nil
}

// Subscribe registers a callback invoked with the path of every confirmed,
// debounced change. Callbacks run on the watcher's timer goroutines and
// should return promptly.
func (w *Watcher) Subscribe(fn func(path string)) {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// AddPath begins watching path. The baseline digest is taken before
// AddPath returns, so any later change is detected against it. Adding a
// path that is already watched replaces its entry: old timers are
// cancelled, a fresh baseline is taken, and the new options apply.
//
// The path's parent directory is registered with the OS notifier rather
// than the file itself, so saves that replace the file via rename keep
// being observed.
func (w *Watcher) AddPath(path string, opts Options) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}

	if old, ok := w.entries[abs]; ok {
		old.stop()
	} else {
		if err := w.addDirLocked(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	e := newEntry(abs, opts.ChecksumLimit, w.config.Debounce, w.config.ResumeGrace, w.emit)
	w.entries[abs] = e

	interval := opts.PollInterval
	if interval <= 0 && isNetworkFS(abs) {
		interval = defaultNetworkPollInterval
	}
	if interval > 0 {
		e.startPolling(interval)
	}

	return nil
}

// RemovePath stops watching path. No-op if the path is not watched.
func (w *Watcher) RemovePath(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.removePathLocked(abs)
}

// RemoveAllPaths stops watching every registered path.
func (w *Watcher) RemoveAllPaths() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path := range w.entries {
		w.removePathLocked(path)
	}
}

// Pause suppresses change notifications for every watched path. Call it
// before writing a watched file so the write is not reported back as an
// external change.
func (w *Watcher) Pause() {
	for _, e := range w.snapshotEntries() {
		e.pause()
	}
}

// Resume lifts the suppression started by Pause. Notifications stay
// ignored for a short grace window afterwards; see Config.ResumeGrace.
func (w *Watcher) Resume() {
	for _, e := range w.snapshotEntries() {
		e.resume()
	}
}

// HasSameChecksum recomputes the digest of path right now and reports
// whether it matches the stored baseline. Returns false for paths that
// are not watched.
func (w *Watcher) HasSameChecksum(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	e, ok := w.entries[abs]
	w.mu.Unlock()
	if !ok {
		return false
	}
	return e.hasSameChecksum()
}

// Close removes all paths and shuts down the routing loop. The watcher
// cannot be reused afterwards.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path := range w.entries {
		w.removePathLocked(path)
	}
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fsWatcher.Close()
}

// addDirLocked registers a parent directory with fsnotify, refcounted so
// several watched files may share one directory watch.
func (w *Watcher) addDirLocked(dir string) error {
	if w.dirRefs[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirRefs[dir]++
	return nil
}

func (w *Watcher) removePathLocked(path string) {
	e, ok := w.entries[path]
	if !ok {
		return
	}
	e.stop()
	delete(w.entries, path)

	dir := filepath.Dir(path)
	w.dirRefs[dir]--
	if w.dirRefs[dir] <= 0 {
		delete(w.dirRefs, dir)
		// Removal can fail if the directory is already gone; the entry is
		// discarded either way.
		_ = w.fsWatcher.Remove(dir)
	}
}

func (w *Watcher) snapshotEntries() []*entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	entries := make([]*entry, 0, len(w.entries))
	for _, e := range w.entries {
		entries = append(entries, e)
	}
	return entries
}

// processEvents routes raw fsnotify events to the entry watching the
// named file. Events for unwatched siblings in a shared directory are
// dropped here. The digest comparison downstream decides whether an event
// reflects a real change, so no filtering by operation kind is done.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			w.mu.Lock()
			e := w.entries[name]
			w.mu.Unlock()
			if e != nil {
				e.check()
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Notification errors are tolerated; polling and later events
			// compensate for anything missed.
		}
	}
}

// emit fans a confirmed change out to all subscribers.
func (w *Watcher) emit(path string) {
	w.subMu.RLock()
	subscribers := make([]func(string), len(w.subscribers))
	copy(subscribers, w.subscribers)
	w.subMu.RUnlock()

	for _, fn := range subscribers {
		fn(path)
	}
}

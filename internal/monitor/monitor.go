// Package monitor wires configuration, the file watcher, and the event
// log into a long-running watch session.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vigil/internal/config"
	"vigil/internal/eventlog"
	"vigil/internal/output"
	"vigil/internal/watcher"
)

// Run watches every path in cfg until ctx is cancelled, reporting each
// detected external change to out and, when enabled, to the on-disk
// event log. It returns a summary of the session.
func Run(ctx context.Context, cfg *config.Configuration, out *output.Output) (*Summary, error) {
	w, err := watcher.New(&watcher.Config{
		Debounce:    cfg.Debounce(),
		ResumeGrace: cfg.ResumeGrace(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	var log *eventlog.Writer
	if cfg.EventLog != nil && cfg.EventLog.Enabled {
		log, err = eventlog.NewWriter(cfg.EventLog.Directory)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		out.Verbose("Logging events to %s (session %s)", log.LogPath(), log.SessionID())
	}

	var mu sync.Mutex
	changes := make(map[string]int)

	w.Subscribe(func(path string) {
		mu.Lock()
		changes[path]++
		mu.Unlock()

		out.Change(path, time.Now())
		if log != nil {
			if err := log.FileChanged(path); err != nil {
				out.Error("Warning: %v", err)
			}
		}
	})

	watched := 0
	for _, wc := range cfg.Watches {
		opts := watcher.Options{
			PollInterval:  time.Duration(wc.PollIntervalSeconds) * time.Second,
			ChecksumLimit: wc.ChecksumLimitBytes,
		}
		if err := w.AddPath(wc.Path, opts); err != nil {
			out.Error("Warning: cannot watch %s: %v", wc.Path, err)
			continue
		}
		watched++
		out.Verbose("Watching %s", wc.Path)
	}
	if watched == 0 {
		return nil, fmt.Errorf("no paths could be watched")
	}

	start := time.Now()
	<-ctx.Done()

	if log != nil {
		if err := log.Close(); err != nil {
			out.Error("Warning: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return newSummary(changes, watched, time.Since(start)), nil
}

package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Summary contains statistics from a watch session.
type Summary struct {
	WatchedPaths int            // Paths successfully registered
	TotalChanges int            // External changes detected
	ByPath       map[string]int // Per-path change counts
	Duration     time.Duration  // Session length
}

func newSummary(changes map[string]int, watched int, duration time.Duration) *Summary {
	s := &Summary{
		WatchedPaths: watched,
		ByPath:       make(map[string]int, len(changes)),
		Duration:     duration,
	}
	for path, n := range changes {
		s.ByPath[path] = n
		s.TotalChanges += n
	}
	return s
}

// PrintSummary formats the session summary for display.
func (s *Summary) PrintSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Watched %d path(s) for %s: %d external change(s) detected",
		s.WatchedPaths, s.Duration.Round(time.Second), s.TotalChanges)

	if len(s.ByPath) > 0 {
		paths := make([]string, 0, len(s.ByPath))
		for path := range s.ByPath {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			fmt.Fprintf(&b, "\n  %s: %d", path, s.ByPath[path])
		}
	}
	return b.String()
}

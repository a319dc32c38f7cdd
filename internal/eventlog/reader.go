package eventlog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ReadAll reads every event from the log in the given directory, in the
// order they were written. A missing log file yields an empty slice.
func ReadAll(logDir string) ([]Event, error) {
	logPath := filepath.Join(logDir, LogFileName)
	file, err := os.Open(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := e.UnmarshalJSON(line); err != nil {
			return nil, fmt.Errorf("malformed event at line %d: %w", lineNum, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	return events, nil
}

// Changes filters events down to FILE_CHANGED entries.
func Changes(events []Event) []Event {
	var changes []Event
	for _, e := range events {
		if e.EventType == EventFileChanged {
			changes = append(changes, e)
		}
	}
	return changes
}

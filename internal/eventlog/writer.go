package eventlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogFileName is the name of the change log inside the log directory.
const LogFileName = "vigil-events.jsonl"

// Writer appends watcher events to the change log.
// It implements append-only semantics with fail-fast behavior: a write
// error surfaces immediately rather than being deferred to Close.
type Writer struct {
	mu        sync.Mutex
	file      *os.File
	writer    *bufio.Writer
	logPath   string
	sessionID SessionID
}

// NewWriter creates a Writer for the given log directory, creating the
// directory and log file as needed, and opens a new session.
func NewWriter(logDir string) (*Writer, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, LogFileName)
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}

	sessionID, err := GenerateSessionID()
	if err != nil {
		file.Close()
		return nil, err
	}

	w := &Writer{
		file:      file,
		writer:    bufio.NewWriter(file),
		logPath:   logPath,
		sessionID: sessionID,
	}

	if err := w.append(EventWatchStart, "", nil); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// SessionID returns the identifier of the current session.
func (w *Writer) SessionID() SessionID {
	return w.sessionID
}

// LogPath returns the path of the underlying log file.
func (w *Writer) LogPath() string {
	return w.logPath
}

// FileChanged records an external change to path.
func (w *Writer) FileChanged(path string) error {
	return w.append(EventFileChanged, path, nil)
}

// Paused records that change notifications were suppressed.
func (w *Writer) Paused() error {
	return w.append(EventPause, "", nil)
}

// Resumed records that change notifications were re-enabled.
func (w *Writer) Resumed() error {
	return w.append(EventResume, "", nil)
}

// Close writes the WATCH_STOP event, flushes and closes the log.
func (w *Writer) Close() error {
	if err := w.append(EventWatchStop, "", nil); err != nil {
		w.file.Close()
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush event log: %w", err)
	}
	return w.file.Close()
}

func (w *Writer) append(eventType EventType, path string, metadata map[string]string) error {
	event := Event{
		Timestamp: time.Now().UTC(),
		SessionID: w.sessionID,
		EventType: eventType,
		Path:      path,
		Metadata:  metadata,
	}

	line, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	// Flush per event so the log survives an abrupt exit.
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush event log: %w", err)
	}
	return nil
}

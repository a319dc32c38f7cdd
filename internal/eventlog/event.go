// Package eventlog provides an append-only JSON Lines log of watcher
// activity, giving sessions a durable record of every external change
// that was detected.
package eventlog

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"
)

// ISO8601Format is the time format used for event timestamps.
const ISO8601Format = time.RFC3339

// SessionID is a unique identifier for each watch session.
// It uses UUID v4 format: "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"
type SessionID string

// EventType represents the type of logged event.
type EventType string

const (
	// Session lifecycle events
	EventWatchStart EventType = "WATCH_START"
	EventWatchStop  EventType = "WATCH_STOP"

	// Watcher activity events
	EventFileChanged EventType = "FILE_CHANGED"
	EventPause       EventType = "PAUSE"
	EventResume      EventType = "RESUME"
)

// Event is one line of the change log.
type Event struct {
	Timestamp time.Time
	SessionID SessionID
	EventType EventType
	Path      string
	Metadata  map[string]string
}

// eventJSON is the internal representation for JSON marshaling.
// It uses a pointer for the optional path so omitempty behaves.
type eventJSON struct {
	Timestamp string            `json:"timestamp"`
	SessionID SessionID         `json:"sessionId"`
	EventType EventType         `json:"eventType"`
	Path      *string           `json:"path,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler for Event, writing timestamps in
// ISO 8601 and omitting the path for session-level events.
func (e Event) MarshalJSON() ([]byte, error) {
	ej := eventJSON{
		Timestamp: e.Timestamp.Format(ISO8601Format),
		SessionID: e.SessionID,
		EventType: e.EventType,
		Metadata:  e.Metadata,
	}
	if e.Path != "" {
		ej.Path = &e.Path
	}
	return json.Marshal(ej)
}

// UnmarshalJSON implements json.Unmarshaler for Event.
func (e *Event) UnmarshalJSON(data []byte) error {
	var ej eventJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return err
	}

	t, err := time.Parse(ISO8601Format, ej.Timestamp)
	if err != nil {
		return err
	}

	e.Timestamp = t
	e.SessionID = ej.SessionID
	e.EventType = ej.EventType
	e.Metadata = ej.Metadata
	if ej.Path != nil {
		e.Path = *ej.Path
	}
	return nil
}

// GenerateSessionID generates a new UUID v4 format session ID.
func GenerateSessionID() (SessionID, error) {
	uuid := make([]byte, 16)
	if _, err := rand.Read(uuid); err != nil {
		return "", fmt.Errorf("failed to generate UUID: %w", err)
	}

	// Set version (4) and variant (RFC 4122)
	uuid[6] = (uuid[6] & 0x0f) | 0x40
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return SessionID(fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4],
		uuid[4:6],
		uuid[6:8],
		uuid[8:10],
		uuid[10:16],
	)), nil
}

// Package config handles configuration loading and validation for Vigil.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Watch describes one file to watch.
type Watch struct {
	// Path is the file to watch. Relative paths are resolved against the
	// working directory at startup.
	Path string `json:"path"`

	// PollIntervalSeconds enables periodic digest re-checks in addition to
	// OS notifications. Zero disables polling (unless the path is on a
	// network mount, where the watcher polls regardless).
	PollIntervalSeconds int `json:"pollIntervalSeconds,omitempty"`

	// ChecksumLimitBytes caps how many bytes of the file are hashed per
	// check. Zero or negative hashes the whole file.
	ChecksumLimitBytes int64 `json:"checksumLimitBytes,omitempty"`
}

// EventLogConfig controls the on-disk change log.
type EventLogConfig struct {
	Enabled   bool   `json:"enabled"`
	Directory string `json:"directory,omitempty"`
}

// Configuration holds all settings for Vigil.
type Configuration struct {
	Watches       []Watch         `json:"watches"`
	DebounceMs    int             `json:"debounceMs,omitempty"`
	ResumeGraceMs int             `json:"resumeGraceMs,omitempty"`
	EventLog      *EventLogConfig `json:"eventLog,omitempty"`
}

// DefaultDebounce is applied when debounceMs is absent or zero.
const DefaultDebounce = 100 * time.Millisecond

// DefaultResumeGrace is applied when resumeGraceMs is absent or zero.
const DefaultResumeGrace = 100 * time.Millisecond

// Validate checks that the configuration has all required fields.
func (c *Configuration) Validate() error {
	if len(c.Watches) == 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "watches must contain at least one entry",
		}
	}

	for i, w := range c.Watches {
		if w.Path == "" {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("watches[%d].path cannot be empty", i),
			}
		}
		if w.PollIntervalSeconds < 0 {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("watches[%d].pollIntervalSeconds cannot be negative", i),
			}
		}
	}

	if c.DebounceMs < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "debounceMs cannot be negative",
		}
	}
	if c.ResumeGraceMs < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "resumeGraceMs cannot be negative",
		}
	}

	if c.EventLog != nil && c.EventLog.Enabled && c.EventLog.Directory == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "eventLog.directory is required when eventLog is enabled",
		}
	}

	return nil
}

// Debounce returns the configured debounce window, or the default.
func (c *Configuration) Debounce() time.Duration {
	if c.DebounceMs > 0 {
		return time.Duration(c.DebounceMs) * time.Millisecond
	}
	return DefaultDebounce
}

// ResumeGrace returns the configured post-resume grace window, or the default.
func (c *Configuration) ResumeGrace() time.Duration {
	if c.ResumeGraceMs > 0 {
		return time.Duration(c.ResumeGraceMs) * time.Millisecond
	}
	return DefaultResumeGrace
}

// HasWatch checks if a path already exists in the watch list.
func (c *Configuration) HasWatch(path string) bool {
	for _, w := range c.Watches {
		if w.Path == path {
			return true
		}
	}
	return false
}

// AddWatch adds a watch if its path doesn't already exist.
// Returns true if the watch was added, false if it was a duplicate.
func (c *Configuration) AddWatch(w Watch) bool {
	if c.HasWatch(w.Path) {
		return false
	}
	c.Watches = append(c.Watches, w)
	return true
}

// Load reads and parses a configuration file from the given path.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var config Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidJSON,
			Message: err.Error(),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Package output handles CLI output formatting including verbose mode and
// change-event reporting.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// Output handles formatted output with verbose and color support.
type Output struct {
	config    Config
	changed   *color.Color
	timestamp *color.Color
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config:    config,
		changed:   color.New(color.FgYellow, color.Bold),
		timestamp: color.New(color.FgCyan),
	}
}

// DefaultConfig returns a Config with sensible defaults and TTY detection.
func DefaultConfig() Config {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	return Config{
		Verbose:   false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     isTTY,
	}
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.print(o.config.Writer, format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.print(o.config.Writer, format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.print(o.config.ErrWriter, format, args...)
}

// Change prints a file-changed notification line.
func (o *Output) Change(path string, at time.Time) {
	fmt.Fprintf(o.config.Writer, "%s %s %s\n",
		o.timestamp.Sprint(at.Format("15:04:05")),
		o.changed.Sprint("changed"),
		path)
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}

func (o *Output) print(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

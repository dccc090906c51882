// Package obslog provides a small structured-logging wrapper used by the
// demo CLI - not by the example listeners, and never by the taskprocessor
// core itself, which does no logging.
//
// It is adapted directly from NoiseFS's pkg/logging/logger.go: the same
// leveled LogLevel enum, a Config struct, a WithComponent child-logger
// pattern, and a hand-rolled text/JSON formatter writing to an io.Writer,
// rather than reaching for a third-party logging library. No sibling
// package in the pack imports one for this either - the teacher's own
// logger is stdlib-only, and that is the idiom this package follows.
package obslog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log entry.
type Level int

// Severity levels, ordered from most to least verbose.
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the level's name.
func (lv Level) String() string {
	switch lv {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// parseLevel parses level's string form. An empty string defaults to
// InfoLevel; anything unrecognized is an error.
func parseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return 0, fmt.Errorf("obslog: invalid log level %q", level)
	}
}

// entry is the JSON/text-formatted shape of a single emitted log line.
type entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level that will be emitted: "debug", "info",
	// "warn", or "error". Defaults to "info" when empty; New rejects an
	// unrecognized value with an error.
	Level string
	// JSON selects JSON-lines output instead of the default text format.
	JSON bool
	// Output is where formatted entries are written. Defaults to os.Stderr.
	Output io.Writer
	// Component, if non-empty, is attached to every entry emitted by the
	// returned Logger.
	Component string
}

// Logger is a leveled, field-carrying logger writing formatted lines to an
// io.Writer.
type Logger struct {
	mu        sync.Mutex
	level     Level
	json      bool
	output    io.Writer
	component string
}

// New builds a Logger per cfg.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{level: level, json: cfg.JSON, output: output, component: cfg.Component}, nil
}

// WithComponent returns a child Logger that tags every entry with
// component, leaving the receiver unmodified.
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{level: l.level, json: l.json, output: l.output, component: component}
}

// IsEnabled reports whether level would currently be emitted.
func (l *Logger) IsEnabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) log(level Level, msg string, fields map[string]interface{}) {
	if !l.IsEnabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := entry{Timestamp: time.Now(), Level: level.String(), Message: msg, Fields: fields}
	if l.component != "" {
		if e.Fields == nil {
			e.Fields = make(map[string]interface{}, 1)
		}
		e.Fields["component"] = l.component
	}

	if l.json {
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		l.output.Write(append(data, '\n'))
		return
	}
	l.output.Write([]byte(formatText(e)))
}

func formatText(e entry) string {
	parts := []string{
		e.Timestamp.Format("2006-01-02 15:04:05"),
		fmt.Sprintf("[%s]", e.Level),
		e.Message,
	}
	line := strings.Join(parts, " ")
	if len(e.Fields) > 0 {
		var fieldParts []string
		for k, v := range e.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, v))
		}
		line += fmt.Sprintf(" [%s]", strings.Join(fieldParts, " "))
	}
	return line + "\n"
}

// Debug logs a debug-level entry, optionally carrying fields.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) { l.logf(DebugLevel, msg, fields) }

// Info logs an info-level entry, optionally carrying fields.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) { l.logf(InfoLevel, msg, fields) }

// Warn logs a warn-level entry, optionally carrying fields.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) { l.logf(WarnLevel, msg, fields) }

// Error logs an error-level entry, optionally carrying fields.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.logf(ErrorLevel, msg, fields)
}

func (l *Logger) logf(level Level, msg string, fields []map[string]interface{}) {
	var f map[string]interface{}
	if len(fields) > 0 {
		f = fields[0]
	}
	l.log(level, msg, f)
}

// Field is a convenience constructor for a single-entry field map, used at
// call sites that only need to attach one value.
func Field(key string, value interface{}) map[string]interface{} {
	return map[string]interface{}{key: value}
}

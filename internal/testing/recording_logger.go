package testing

import (
	"fmt"
	"strings"
	"sync"
)

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level   string // VERBOSE, INFO, WARN, ERROR
	Message string
}

// RecordingLogger implements tripload.Logger by keeping every message in memory.
// Thread-safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.record("VERBOSE", format, args)
}

func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.record("INFO", format, args)
}

func (l *RecordingLogger) Warn(format string, args ...interface{}) {
	l.record("WARN", format, args)
}

func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.record("ERROR", format, args)
}

func (l *RecordingLogger) record(level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg})
}

// Entries returns a copy of all captured entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]LogEntry, len(l.entries))
	copy(result, l.entries)
	return result
}

// Messages returns the messages logged at level, in order.
func (l *RecordingLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []string
	for _, e := range l.entries {
		if e.Level == level {
			result = append(result, e.Message)
		}
	}
	return result
}

// Contains reports whether any message at any level contains substr.
func (l *RecordingLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Reset clears all captured entries.
func (l *RecordingLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

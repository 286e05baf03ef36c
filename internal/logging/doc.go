// Package logging provides concrete implementations of the tripload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr with thread-safe output
//   - NullLogger: Discards all messages (useful for testing)
//
// FormatCount renders row counts with thousands separators for log lines.
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

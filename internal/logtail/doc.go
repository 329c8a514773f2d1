// Package logtail reads the tail of the client's own log file and turns its
// slog JSON records into readable lines for the TUI log view.
//
// Read keeps a ring buffer of the last N lines so memory stays bounded by N
// regardless of file size. Format decodes one JSON record into
//
//	2026-01-02 15:04:05 WARN – health probe failed error=refused seq=3
//
// dropping the source location and sorting the remaining attributes by key.
// Lines that are not JSON records are returned unchanged.
package logtail

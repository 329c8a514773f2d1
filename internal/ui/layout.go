package ui

import "time"

// Layout limits.
const (
	// InputMaxWidth caps the headline input on wide terminals.
	InputMaxWidth = 96

	// BarMaxWidth caps the probability bars.
	BarMaxWidth = 40

	// FeedVisibleRows is the number of feed entries shown at once.
	FeedVisibleRows = 8
)

// LogBufferLimit is the maximum number of log lines read for the log view.
const LogBufferLimit = 2000

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the health snapshot.
	DefaultUIInterval = time.Second

	// FeedFetchTimeout bounds a single feed download.
	FeedFetchTimeout = 15 * time.Second
)

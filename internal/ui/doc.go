// Package ui provides the terminal interface for checkmate.
//
// # Architecture Overview
//
// The interface is a bubbletea program. Model holds all view state and is
// driven by three message sources: key presses, a periodic tick that pulls
// the latest availability snapshot, and command results (prediction outcomes,
// feed fetches and log reads) that arrive as typed messages.
//
// Network work never runs inside Update. Submissions are begun synchronously
// so validation feedback and the Pending state are immediate, then resolved in
// a tea.Cmd. Outcomes that were superseded by a newer submission are dropped.
//
// # Package Structure
//
//   - app.go: Model, Options, Update and View, and the Run entry point
//   - commands.go: tea.Cmd constructors and the messages they produce
//   - input.go: headline textarea, counters and validation line
//   - result.go: verdict card, confidence bars and failure rendering
//   - header.go: availability badge, header, footer and page composition
//   - feedlist.go: optional headline candidates from an RSS/Atom feed
//   - logs.go: log view backed by the JSON log file
//   - help.go: keyboard shortcut overlay
//   - theme.go, style_helpers.go: palettes and background-aware rendering
//
// # Views
//
//   - Check: headline input, result card and optional feed list
//   - Logs: scrollable tail of the client log (ctrl+o)
//
// # Themes
//
// Nightfox, Kanagawa and Slate are available. ctrl+t cycles through them and
// the choice is persisted to the preferences file.
package ui

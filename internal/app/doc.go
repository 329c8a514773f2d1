// Package app is the composition root for CheckMate.
//
// Run loads configuration, opens the JSON log file and builds the transport
// client, submission controller, availability store and poller. The poller and
// the bubbletea program share one errgroup: quitting the UI cancels the group,
// which stops the poller and closes the store. The controller is closed on
// return so an in-flight prediction cannot land after teardown.
//
//	Run()
//	  ├─> config.Load()           env > file > defaults
//	  ├─> logging.New()           JSON to log_file
//	  ├─> checkmate.NewClient()   POST /predict, GET /
//	  ├─> submission.New()        last-submit-wins, one retry
//	  ├─> NewPoller()             probe at start, then every poll_interval
//	  └─> ui.Run()                blocks until quit
//
// Check and Health are the one-shot equivalents used by the CLI flags. They
// share configuration and logging with Run but never start the TUI.
//
// # Polling Behavior
//
// The first probe runs immediately. Later probes run every poll_interval
// (default 60s), each bounded by probe_timeout (default 10s, never longer than
// the interval). Revalidate skips the probe while the last success is younger
// than fresh_for (default 30s). A failed probe marks the API offline but never
// affects submissions.
package app

// Package state holds the backend availability shared between the health
// poller and the UI.
//
// # Overview
//
// The Store is the coordination point where probe results meet rendering. The
// poller writes, the UI reads snapshots on its own tick.
//
//	Poller:                         UI:
//	seq := store.Begin()            snap := store.Snapshot()
//	resp, err := HealthCheck(ctx)   render(snap.Summary())
//	store.Apply(seq, resp, err)
//
// # Status Rules
//
// Status starts as Checking and stays there until the first probe result is
// applied. From then on it is Online or Offline according to the latest
// applied result. Starting a new probe only sets InFlight; it never moves the
// status back to Checking.
//
// # Ordering
//
// Every probe is issued a sequence number by Begin. Apply accepts a result only
// when its sequence number is the latest one issued, so a slow probe that
// resolves after a newer one started is dropped. After Close no result is
// applied at all.
//
// # Freshness
//
// Snapshot.Fresh reports whether the last success is younger than a window.
// Freshness decides whether a revalidation probe is needed; it does not affect
// the regular poll schedule.
//
// The zero Store is ready to use.
package state

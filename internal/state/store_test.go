package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/checkmate/internal/checkmate"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestStore_ZeroValueIsChecking(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Status != StatusChecking || snap.Summary() != "Checking..." {
		t.Fatalf("snapshot = %#v, want checking", snap)
	}
	if snap.HasResult() {
		t.Fatal("HasResult() = true, want false before any probe")
	}
}

func TestStore_CheckingOnlineOffline(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	s := Store{now: fixedClock(&now)}

	seq := s.Begin()
	if snap := s.Snapshot(); snap.Status != StatusChecking || !snap.InFlight {
		t.Fatalf("after Begin = %#v, want checking and in flight", snap)
	}

	if !s.Apply(seq, &checkmate.HealthResponse{Status: "ok", Note: "CheckMate API running"}, nil) {
		t.Fatal("Apply returned false for latest probe")
	}
	snap := s.Snapshot()
	if snap.Status != StatusOnline || snap.Summary() != "API Online" || snap.InFlight {
		t.Fatalf("after success = %#v, want online", snap)
	}
	if snap.Health.Note != "CheckMate API running" || !snap.LastSuccess.Equal(now) {
		t.Fatalf("health = %#v lastSuccess = %v", snap.Health, snap.LastSuccess)
	}

	now = now.Add(time.Minute)
	seq = s.Begin()
	if got := s.Snapshot().Status; got != StatusOnline {
		t.Fatalf("status while second probe in flight = %v, want online", got)
	}

	s.Apply(seq, nil, errors.New("connection refused"))
	snap = s.Snapshot()
	if snap.Status != StatusOffline || snap.Summary() != "API Offline" {
		t.Fatalf("after failure = %#v, want offline", snap)
	}
	if snap.LastError == nil || snap.LastError.Error() != "connection refused" {
		t.Fatalf("LastError = %v", snap.LastError)
	}
	if !snap.LastChecked.Equal(now) || snap.LastSuccess.Equal(now) {
		t.Fatalf("LastChecked = %v LastSuccess = %v", snap.LastChecked, snap.LastSuccess)
	}
}

func TestStore_StaleProbeDiscarded(t *testing.T) {
	var s Store

	older := s.Begin()
	newer := s.Begin()

	if !s.Apply(newer, &checkmate.HealthResponse{Status: "ok"}, nil) {
		t.Fatal("Apply(newer) returned false")
	}
	if s.Apply(older, nil, errors.New("late failure")) {
		t.Fatal("Apply(older) returned true, want stale result dropped")
	}
	snap := s.Snapshot()
	if snap.Status != StatusOnline || snap.Seq != newer {
		t.Fatalf("snapshot = %#v, want online from seq %d", snap, newer)
	}
}

func TestStore_OlderResultCannotClearNewerInFlight(t *testing.T) {
	var s Store

	older := s.Begin()
	_ = s.Begin()
	if s.Apply(older, &checkmate.HealthResponse{Status: "ok"}, nil) {
		t.Fatal("Apply(older) returned true while a newer probe is in flight")
	}
	snap := s.Snapshot()
	if !snap.InFlight || snap.Status != StatusChecking {
		t.Fatalf("snapshot = %#v, want checking with probe in flight", snap)
	}
}

func TestStore_CloseRejectsResults(t *testing.T) {
	var s Store
	seq := s.Begin()
	s.Close()
	if s.Apply(seq, &checkmate.HealthResponse{Status: "ok"}, nil) {
		t.Fatal("Apply after Close returned true")
	}
	if snap := s.Snapshot(); snap.Status != StatusChecking || snap.InFlight {
		t.Fatalf("snapshot after Close = %#v", snap)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	for i := 1; i <= 3; i++ {
		s.Apply(s.Begin(), nil, errors.New("fail"))
		if got := s.Snapshot().ConsecutiveFailures; got != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", got, i)
		}
	}

	s.Apply(s.Begin(), &checkmate.HealthResponse{Status: "ok"}, nil)
	if got := s.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", got)
	}
}

func TestStore_SnapshotClonesError(t *testing.T) {
	var s Store
	origErr := errors.New("boom")
	s.Apply(s.Begin(), nil, origErr)

	snap := s.Snapshot()
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatal("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatal("cloned error should wrap the original")
	}
}

func TestSnapshot_Fresh(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	window := 30 * time.Second

	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{"never checked", Snapshot{}, false},
		{"recent success", Snapshot{Status: StatusOnline, LastSuccess: now.Add(-10 * time.Second)}, true},
		{"old success", Snapshot{Status: StatusOnline, LastSuccess: now.Add(-31 * time.Second)}, false},
		{"exactly at window", Snapshot{Status: StatusOnline, LastSuccess: now.Add(-window)}, false},
		{"offline after success", Snapshot{Status: StatusOffline, LastSuccess: now.Add(-time.Second)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.Fresh(now, window); got != tt.want {
				t.Fatalf("Fresh = %v, want %v", got, tt.want)
			}
		})
	}
}

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/five82/checkmate/internal/checkmate"
	"github.com/five82/checkmate/internal/state"
)

type healthFunc func(ctx context.Context) (checkmate.HealthResponse, error)

func (f healthFunc) HealthCheck(ctx context.Context) (checkmate.HealthResponse, error) {
	return f(ctx)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var okHealth = checkmate.HealthResponse{Status: "ok", Note: "CheckMate API running"}

func waitFor(t *testing.T, store *state.Store, cond func(state.Snapshot) bool) state.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := store.Snapshot(); cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met; last snapshot %#v", store.Snapshot())
	return state.Snapshot{}
}

func TestNewPoller_Defaults(t *testing.T) {
	p := NewPoller(nil, &state.Store{}, PollerOptions{})
	if p.interval != defaultPollInterval || p.freshFor != defaultFreshFor || p.timeout != defaultProbeTimeout {
		t.Fatalf("defaults = %v/%v/%v", p.interval, p.freshFor, p.timeout)
	}

	p = NewPoller(nil, &state.Store{}, PollerOptions{Interval: 5 * time.Second, Timeout: time.Minute})
	if p.timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want capped to interval", p.timeout)
	}
}

func TestPoller_RunCheckingOnlineOffline(t *testing.T) {
	store := &state.Store{}

	var (
		mu       sync.Mutex
		calls    int
		observed []state.Status
	)
	checker := healthFunc(func(ctx context.Context) (checkmate.HealthResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		observed = append(observed, store.Snapshot().Status)
		if calls == 1 {
			return okHealth, nil
		}
		return checkmate.HealthResponse{}, &checkmate.APIError{Kind: checkmate.KindProtocol, StatusCode: 503, Detail: "Health check failed: 503"}
	})

	p := NewPoller(checker, store, PollerOptions{Interval: 20 * time.Millisecond, Logger: quietLogger()})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitFor(t, store, func(s state.Snapshot) bool { return s.Status == state.StatusOffline })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if observed[0] != state.StatusChecking {
		t.Fatalf("status during first probe = %v, want checking", observed[0])
	}
	if observed[1] != state.StatusOnline {
		t.Fatalf("status during second probe = %v, want online (never back to checking)", observed[1])
	}
}

func TestPoller_RunClosesStore(t *testing.T) {
	store := &state.Store{}
	p := NewPoller(healthFunc(func(ctx context.Context) (checkmate.HealthResponse, error) {
		return okHealth, nil
	}), store, PollerOptions{Interval: time.Hour, Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	waitFor(t, store, func(s state.Snapshot) bool { return s.Status == state.StatusOnline })
	cancel()
	<-done

	if store.Apply(store.Begin(), nil, errors.New("late")) {
		t.Fatal("store accepted a result after Run returned")
	}
	if got := store.Snapshot().Status; got != state.StatusOnline {
		t.Fatalf("status = %v, want online preserved after teardown", got)
	}
}

func TestPoller_RevalidateSkipsWhileFresh(t *testing.T) {
	store := &state.Store{}
	var calls int
	p := NewPoller(healthFunc(func(ctx context.Context) (checkmate.HealthResponse, error) {
		calls++
		return okHealth, nil
	}), store, PollerOptions{FreshFor: 30 * time.Second, Logger: quietLogger()})

	if !p.Revalidate(context.Background()) {
		t.Fatal("Revalidate with no result should probe")
	}
	if p.Revalidate(context.Background()) {
		t.Fatal("Revalidate while fresh should not probe")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	last := store.Snapshot().LastSuccess
	p.now = func() time.Time { return last.Add(31 * time.Second) }
	if !p.Revalidate(context.Background()) {
		t.Fatal("Revalidate after the freshness window should probe")
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestPoller_RevalidateAfterFailure(t *testing.T) {
	store := &state.Store{}
	var calls int
	p := NewPoller(healthFunc(func(ctx context.Context) (checkmate.HealthResponse, error) {
		calls++
		return checkmate.HealthResponse{}, errors.New("refused")
	}), store, PollerOptions{Logger: quietLogger()})

	p.Refresh(context.Background())
	if !p.Revalidate(context.Background()) || calls != 2 {
		t.Fatalf("Revalidate after failure should probe; calls = %d", calls)
	}
}

func TestPoller_OlderProbeCannotOverwriteNewer(t *testing.T) {
	store := &state.Store{}
	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu    sync.Mutex
		calls int
	)
	p := NewPoller(healthFunc(func(ctx context.Context) (checkmate.HealthResponse, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return checkmate.HealthResponse{}, errors.New("slow failure")
		}
		return okHealth, nil
	}), store, PollerOptions{Logger: quietLogger()})

	done := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(done)
	}()
	<-entered

	snap := p.Refresh(context.Background())
	if snap.Status != state.StatusOnline {
		t.Fatalf("newer probe status = %v, want online", snap.Status)
	}

	close(release)
	<-done
	if got := store.Snapshot(); got.Status != state.StatusOnline || got.LastError != nil {
		t.Fatalf("stale probe overwrote newer result: %#v", got)
	}
}

func TestPoller_ProbeTimeout(t *testing.T) {
	store := &state.Store{}
	p := NewPoller(healthFunc(func(ctx context.Context) (checkmate.HealthResponse, error) {
		<-ctx.Done()
		return checkmate.HealthResponse{}, &checkmate.APIError{Kind: checkmate.KindTransport, Detail: ctx.Err().Error(), Err: ctx.Err()}
	}), store, PollerOptions{Timeout: 20 * time.Millisecond, Logger: quietLogger()})

	snap := p.Refresh(context.Background())
	if snap.Status != state.StatusOffline {
		t.Fatalf("status = %v, want offline after timeout", snap.Status)
	}
	if !errors.Is(snap.LastError, context.DeadlineExceeded) {
		t.Fatalf("LastError = %v, want deadline exceeded", snap.LastError)
	}
}

func TestPoller_CancelledProbeLeavesResult(t *testing.T) {
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(healthFunc(func(probeCtx context.Context) (checkmate.HealthResponse, error) {
		cancel()
		<-probeCtx.Done()
		return checkmate.HealthResponse{}, probeCtx.Err()
	}), store, PollerOptions{Logger: quietLogger()})

	snap := p.Refresh(ctx)
	if snap.Status != state.StatusChecking {
		t.Fatalf("status = %v, want checking untouched by a cancelled probe", snap.Status)
	}
}

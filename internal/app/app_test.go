package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/five82/checkmate/internal/config"
	"github.com/five82/checkmate/internal/headline"
	"github.com/five82/checkmate/internal/state"
	"github.com/five82/checkmate/internal/submission"
)

func writeTestConfig(t *testing.T, apiURL string) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "checkmate.log")
	cfgPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\nlog_file = %q\nlog_level = \"debug\"\n", apiURL, logPath)
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvLogLevel, "")
	return Options{ConfigPath: cfgPath}, logPath
}

func TestCheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"label":"fake","score":0.82,"probs":{"real":0.18,"fake":0.82}}`)
	}))
	t.Cleanup(server.Close)
	opts, logPath := writeTestConfig(t, server.URL)

	st, err := Check(context.Background(), opts, "Scientists discover water on the moon")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if st.Phase != submission.PhaseSuccess || st.Result.ConfidencePercent() != 82 {
		t.Fatalf("state = %#v, want success at 82%%", st)
	}

	logged, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logged), `"msg":"submission succeeded"`) {
		t.Fatalf("log missing submission entry:\n%s", logged)
	}
}

func TestCheck_ValidationNeverCallsBackend(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)
	opts, _ := writeTestConfig(t, server.URL)

	_, err := Check(context.Background(), opts, "hi there")
	var verr *headline.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Check error = %v, want *headline.ValidationError", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("backend called %d times, want 0", calls.Load())
	}
}

func TestCheck_FailureAfterRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"model not loaded"}`)
	}))
	t.Cleanup(server.Close)
	opts, _ := writeTestConfig(t, server.URL)

	st, err := Check(context.Background(), opts, "Local officials confirm new policy")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if st.Phase != submission.PhaseFailed || st.Err == nil || st.Err.Detail != "model not loaded" {
		t.Fatalf("state = %#v, want failed with backend detail", st)
	}
	if calls.Load() != submission.MaxAttempts {
		t.Fatalf("backend called %d times, want %d", calls.Load(), submission.MaxAttempts)
	}
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"status":"ok","note":"CheckMate API running"}`)
	}))
	t.Cleanup(server.Close)
	opts, _ := writeTestConfig(t, server.URL)

	snap, err := Health(context.Background(), opts)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if snap.Status != state.StatusOnline || snap.Health.Note != "CheckMate API running" {
		t.Fatalf("snapshot = %#v, want online", snap)
	}

	healthy.Store(false)
	snap, err = Health(context.Background(), opts)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if snap.Status != state.StatusOffline || snap.LastError == nil {
		t.Fatalf("snapshot = %#v, want offline with error", snap)
	}
}

func TestOpen_EnvOverridesConfiguredURL(t *testing.T) {
	opts, _ := writeTestConfig(t, "http://from-file:8000")
	t.Setenv(config.EnvAPIURL, "http://from-env:9000")

	rt, err := open(opts)
	if err != nil {
		t.Fatalf("open returned error: %v", err)
	}
	defer rt.close()
	if got := rt.client.BaseURL(); got != "http://from-env:9000" {
		t.Fatalf("BaseURL = %q, want env value", got)
	}
}

func TestOpen_PollOverride(t *testing.T) {
	opts, _ := writeTestConfig(t, "http://localhost:8000")
	opts.PollEvery = 5
	opts.FeedURL = "https://example.com/rss"

	rt, err := open(opts)
	if err != nil {
		t.Fatalf("open returned error: %v", err)
	}
	defer rt.close()
	if rt.cfg.PollInterval.Seconds() != 5 {
		t.Fatalf("PollInterval = %v, want 5s", rt.cfg.PollInterval)
	}
	if rt.cfg.FeedURL != "https://example.com/rss" {
		t.Fatalf("FeedURL = %q", rt.cfg.FeedURL)
	}
}

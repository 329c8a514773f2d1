package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = io.WriteString(w, `{"status":"ok","note":"CheckMate API running"}`)
		case "/predict":
			_, _ = io.WriteString(w, `{"label":"real","score":0.876,"probs":{"real":0.876,"fake":0.124}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func configFor(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\nlog_file = %q\n", apiURL, filepath.Join(dir, "checkmate.log"))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CHECKMATE_API_URL", "")
	return path
}

func TestRun_Check(t *testing.T) {
	server := testServer(t)
	cfg := configFor(t, server.URL)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfg, "-check", "Local officials confirm new policy"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}
	if got := stdout.String(); !strings.Contains(got, "Likely Real News (confidence 88%)") || !strings.Contains(got, "real 88%  fake 12%") {
		t.Fatalf("stdout = %q", got)
	}
}

func TestRun_CheckJSON(t *testing.T) {
	server := testServer(t)
	cfg := configFor(t, server.URL)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfg, "-json", "-check", "Local officials confirm new policy"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}
	var report checkReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout.String())
	}
	if report.Status != "success" || report.Result == nil || report.Result.Score != 0.876 || report.Attempts != 1 {
		t.Fatalf("report = %#v", report)
	}
}

func TestRun_CheckValidationExitCode(t *testing.T) {
	cfg := configFor(t, "http://127.0.0.1:1")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfg, "-check", "too short"}, &stdout, &stderr)
	if code != exitValidation {
		t.Fatalf("exit = %d, want %d", code, exitValidation)
	}
	if !strings.Contains(stderr.String(), "Headline must be at least 10 characters long") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRun_Health(t *testing.T) {
	server := testServer(t)
	cfg := configFor(t, server.URL)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfg, "-health"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "API Online: CheckMate API running" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestRun_HealthOffline(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()
	cfg := configFor(t, addr)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfg, "-health", "-json"}, &stdout, &stderr); code != exitFailure {
		t.Fatalf("exit = %d, want %d", code, exitFailure)
	}
	var report healthReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Status != "offline" || report.Error == "" {
		t.Fatalf("report = %#v", report)
	}
}

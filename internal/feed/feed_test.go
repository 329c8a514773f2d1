package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example News</title>
  <item>
    <title>Local officials confirm new   transit policy</title>
    <link>https://news.example.com/1</link>
    <pubDate>Mon, 02 Mar 2026 10:00:00 GMT</pubDate>
  </item>
  <item><title>Too short</title></item>
  <item><title>Breaking</title></item>
  <item><title>LOCAL OFFICIALS CONFIRM NEW TRANSIT POLICY</title></item>
  <item><title>Scientists discover water on the moon</title><link>https://news.example.com/2</link></item>
  <item><title>Markets rally after surprise rate cut</title></item>
</channel>
</rss>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_FiltersAndDeduplicates(t *testing.T) {
	server := serveFeed(t, sampleRSS)

	got, err := NewFetcher(server.Client()).Fetch(context.Background(), server.URL, 0)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	want := []string{
		"Local officials confirm new transit policy",
		"Scientists discover water on the moon",
		"Markets rally after surprise rate cut",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %#v", len(got), len(want), got)
	}
	for i, c := range got {
		if c.Headline != want[i] {
			t.Fatalf("candidate %d = %q, want %q", i, c.Headline, want[i])
		}
		if c.Source != "Example News" {
			t.Fatalf("Source = %q", c.Source)
		}
	}
	if got[0].Link != "https://news.example.com/1" {
		t.Fatalf("Link = %q", got[0].Link)
	}
	if wantTime := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC); !got[0].Published.Equal(wantTime) {
		t.Fatalf("Published = %v, want %v", got[0].Published, wantTime)
	}
}

func TestFetch_Limit(t *testing.T) {
	server := serveFeed(t, sampleRSS)

	got, err := NewFetcher(nil).Fetch(context.Background(), server.URL, 2)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
}

func TestFetch_Errors(t *testing.T) {
	if _, err := NewFetcher(nil).Fetch(context.Background(), "  ", 5); err == nil {
		t.Fatal("Fetch with empty url returned nil error")
	}

	server := serveFeed(t, "this is not a feed")
	_, err := NewFetcher(nil).Fetch(context.Background(), server.URL, 5)
	if err == nil || !strings.Contains(err.Error(), "failed to fetch feed") {
		t.Fatalf("Fetch error = %v, want fetch failure", err)
	}
}

func TestCandidates_NilFeed(t *testing.T) {
	if Candidates(nil, 3) != nil {
		t.Fatal("Candidates(nil) should be nil")
	}
}

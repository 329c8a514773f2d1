// Package feed pulls candidate headlines from an RSS or Atom feed. Only titles
// that pass headline validation are offered.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/five82/checkmate/internal/headline"
)

// Candidate is a feed item whose title is a valid headline.
type Candidate struct {
	Headline  string
	Link      string
	Source    string
	Published time.Time
}

// Fetcher retrieves candidates from a feed URL.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher returns a Fetcher using client for HTTP. A nil client uses the
// parser's default.
func NewFetcher(client *http.Client) *Fetcher {
	p := gofeed.NewParser()
	p.UserAgent = "checkmate/0.1"
	if client != nil {
		p.Client = client
	}
	return &Fetcher{parser: p}
}

// Fetch parses feedURL and returns up to limit candidates in feed order.
// Titles are whitespace-collapsed, validated, and deduplicated
// case-insensitively. A non-positive limit returns every candidate.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, limit int) ([]Candidate, error) {
	if strings.TrimSpace(feedURL) == "" {
		return nil, fmt.Errorf("feed url is empty")
	}
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return Candidates(parsed, limit), nil
}

// Candidates extracts valid headlines from an already parsed feed.
func Candidates(parsed *gofeed.Feed, limit int) []Candidate {
	if parsed == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(parsed.Items))
	var out []Candidate
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		title := strings.Join(strings.Fields(item.Title), " ")
		h, err := headline.Validate(title)
		if err != nil {
			continue
		}
		key := strings.ToLower(h.String())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		c := Candidate{Headline: h.String(), Link: item.Link, Source: parsed.Title}
		if item.PublishedParsed != nil {
			c.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			c.Published = *item.UpdatedParsed
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

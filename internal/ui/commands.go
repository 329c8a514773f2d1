package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/checkmate/internal/feed"
	"github.com/five82/checkmate/internal/logtail"
	"github.com/five82/checkmate/internal/state"
	"github.com/five82/checkmate/internal/submission"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type resolvedMsg struct {
	state submission.State
	err   error
}

type feedMsg struct {
	items []feed.Candidate
	err   error
}

type logsMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store SnapshotSource) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func resolveCmd(ctx context.Context, sub *submission.Submission) tea.Cmd {
	return func() tea.Msg {
		st, err := sub.Resolve(ctx)
		return resolvedMsg{state: st, err: err}
	}
}

func refreshCmd(ctx context.Context, monitor HealthMonitor) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(monitor.Refresh(ctx))
	}
}

// revalidateCmd probes only when the cached status is stale, then reports the
// latest snapshot either way.
func revalidateCmd(ctx context.Context, monitor HealthMonitor, store SnapshotSource) tea.Cmd {
	if monitor == nil || store == nil {
		return nil
	}
	return func() tea.Msg {
		monitor.Revalidate(ctx)
		return snapshotMsg(store.Snapshot())
	}
}

func fetchFeedCmd(ctx context.Context, source FeedSource, url string, limit int) tea.Cmd {
	return func() tea.Msg {
		fetchCtx, cancel := context.WithTimeout(ctx, FeedFetchTimeout)
		defer cancel()
		items, err := source.Fetch(fetchCtx, url, limit)
		return feedMsg{items: items, err: err}
	}
}

func readLogsCmd(path string, limit int) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, limit)
		return logsMsg{lines: logtail.FormatLines(lines), err: err}
	}
}

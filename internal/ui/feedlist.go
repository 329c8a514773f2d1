package ui

import (
	"fmt"
	"strings"
)

// feedWindow returns the slice bounds of feed rows visible around sel.
func feedWindow(total, sel, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	start := sel - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}

func (m Model) renderFeed() string {
	styles := m.theme.Styles()

	title := "Headline Feed"
	if src := m.feedSource(); src != "" {
		title += " · " + src
	}
	lines := []string{styles.Text.Bold(true).Render(title)}

	switch {
	case m.feedLoading:
		lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Loading feed..."))
	case m.feedURL == "":
		lines = append(lines, styles.FaintText.Render("No feed_url configured."))
	case m.feedErr != nil:
		lines = append(lines, styles.DangerText.Render(truncate(firstLine(m.feedErr.Error()), m.inputWidth())))
	case len(m.feedItems) == 0:
		lines = append(lines, styles.FaintText.Render("No valid headlines in feed."))
	default:
		start, end := feedWindow(len(m.feedItems), m.feedSel, FeedVisibleRows)
		width := m.inputWidth() - 4
		for i := start; i < end; i++ {
			text := truncate(m.feedItems[i].Headline, width)
			if i == m.feedSel && m.focus == focusFeed {
				lines = append(lines, styles.Selected.Render("› "+text))
				continue
			}
			lines = append(lines, styles.MutedText.Render("  "+text))
		}
		lines = append(lines, styles.FaintText.Render(fmt.Sprintf("%d/%d  tab to select, enter to check", m.feedSel+1, len(m.feedItems))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) feedSource() string {
	if len(m.feedItems) > 0 && m.feedItems[0].Source != "" {
		return m.feedItems[0].Source
	}
	return ""
}

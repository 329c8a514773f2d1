package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/checkmate/internal/state"
)

// statusBadgeText is the badge label for an availability snapshot.
func statusBadgeText(snap state.Snapshot) string {
	return snap.Summary()
}

// renderHeader renders the top bar: logo, API status badge and details.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	badge := styles.StatusStyle(m.health.Status.String()).Render(statusBadgeText(m.health))
	if m.health.Status == state.StatusChecking || m.health.InFlight {
		badge = bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() + badge
	}

	parts := []string{
		bg.Render("checkmate", styles.Logo),
		badge,
	}
	if detail := m.healthDetail(); detail != "" {
		parts = append(parts, bg.Render(detail, styles.MutedText))
	}
	if m.apiURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 40), styles.FaintText))
	}
	if m.view == ViewLogs {
		parts = append(parts, bg.Render("LOGS", styles.AccentText.Bold(true)))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) healthDetail() string {
	snap := m.health
	if snap.LastChecked.IsZero() {
		return ""
	}
	detail := "checked " + snap.LastChecked.Format("15:04:05")
	if snap.Status == state.StatusOffline {
		if snap.ConsecutiveFailures > 1 {
			detail += fmt.Sprintf(" (%d failures)", snap.ConsecutiveFailures)
		}
		if snap.LastError != nil {
			detail += " " + truncate(firstLine(snap.LastError.Error()), 48)
		}
	}
	return detail
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderMain renders the full screen for the active view.
func (m Model) renderMain() string {
	var body string
	switch m.view {
	case ViewLogs:
		body = m.renderLogs()
	default:
		body = m.renderCheck()
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	height := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if height < 0 {
		height = 0
	}
	body = lipgloss.NewStyle().Height(height).MaxHeight(height).Padding(0, 1).Render(body)
	return header + "\n" + body + "\n" + footer
}

func (m Model) renderCheck() string {
	styles := m.theme.Styles()
	sections := []string{
		styles.AccentText.Bold(true).Render("Fact-Check Your News"),
		styles.MutedText.Render("Enter a news headline to check if it's real or fake"),
		"",
		m.renderInput(),
		"",
		m.renderResult(),
	}
	if m.showFeed {
		sections = append(sections, "", m.renderFeed())
	}
	return strings.Join(sections, "\n")
}

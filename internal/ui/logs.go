package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	timestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	levelRe     = regexp.MustCompile(`\b(DEBUG|INFO|WARN|ERROR)\b`)
	separatorRe = regexp.MustCompile(`\s*–\s*`)
)

// updateLogViewport resizes the viewport and reloads its content, following
// the tail of the log.
func (m *Model) updateLogViewport() {
	// Leaves room for header, footer, title, status and the box border.
	w := m.width - 4
	h := m.height - 6
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	m.logViewport.Width = w
	m.logViewport.Height = h

	atBottom := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(m.renderLogContent())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := "Client Log"
	if m.logPath != "" {
		title += " · " + truncateMiddle(m.logPath, 60)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Render(m.logViewport.View())

	status := fmt.Sprintf("%d lines", len(m.logLines))
	if m.logErr != nil {
		status = m.logErr.Error()
	}
	return styles.AccentText.Bold(true).Render(title) + "\n" + box + "\n" + styles.FaintText.Render(status)
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logPath == "" {
		return styles.MutedText.Render("Logging to file is disabled")
	}
	if len(m.logLines) == 0 {
		return styles.MutedText.Render("No log entries")
	}
	out := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		out[i] = m.colorizeLogLine(line, styles)
	}
	return strings.Join(out, "\n")
}

// colorizeLogLine styles a formatted "timestamp LEVEL – message" line.
func (m Model) colorizeLogLine(line string, styles Styles) string {
	if strings.TrimSpace(line) == "" {
		return line
	}
	var b strings.Builder
	remaining := line

	if loc := timestampRe.FindStringSubmatchIndex(remaining); loc != nil {
		b.WriteString(styles.FaintText.Render(remaining[loc[2]:loc[3]]))
		remaining = remaining[loc[3]:]
	}
	if loc := levelRe.FindStringSubmatchIndex(remaining); loc != nil && loc[0] <= 1 {
		level := remaining[loc[2]:loc[3]]
		b.WriteString(" ")
		b.WriteString(levelStyle(level, styles).Bold(true).Render(level))
		remaining = remaining[loc[3]:]
	}
	if parts := separatorRe.Split(remaining, 2); len(parts) == 2 && strings.TrimSpace(parts[0]) == "" {
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render("–"))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(parts[1]))
	} else {
		b.WriteString(styles.Text.Render(remaining))
	}
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

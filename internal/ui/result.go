package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/checkmate/internal/checkmate"
	"github.com/five82/checkmate/internal/submission"
)

// verdictText is the card title for a prediction.
func verdictText(resp checkmate.PredictionResponse) string {
	switch resp.Label {
	case checkmate.LabelReal:
		return "Likely Real News"
	case checkmate.LabelFake:
		return "Likely Fake News"
	default:
		return fmt.Sprintf("Label: %s", resp.Label)
	}
}

func (m Model) renderResult() string {
	styles := m.theme.Styles()

	switch m.sub.Phase {
	case submission.PhasePending:
		return m.spinner.View() + " " + styles.AccentText.Render("Analyzing...")

	case submission.PhaseSuccess:
		return m.renderResultCard(m.sub.Result)

	case submission.PhaseFailed:
		return m.renderFailure()

	default:
		return styles.FaintText.Render("Press enter to check the headline.")
	}
}

func (m Model) renderResultCard(resp checkmate.PredictionResponse) string {
	styles := m.theme.Styles()
	accent := m.theme.Danger
	titleStyle := styles.DangerText
	if resp.IsReal() {
		accent = m.theme.Success
		titleStyle = styles.SuccessText
	}

	label := strings.ToUpper(string(resp.Label))
	header := titleStyle.Render(verdictText(resp)) + "  " +
		styles.StatusStyle(string(resp.Label)).Render(label)

	confidence := fmt.Sprintf("%d%%", resp.ConfidencePercent())
	rows := []string{
		header,
		styles.MutedText.Render("Confidence: " + confidence),
		"",
		barRow(styles, "Confidence Level", m.confidenceBar.ViewAs(resp.Score), confidence),
		barRow(styles, "Real News:", m.realBar.ViewAs(resp.Probs.Real), fmt.Sprintf("%d%%", resp.RealPercent())),
		barRow(styles, "Fake News:", m.fakeBar.ViewAs(resp.Probs.Fake), fmt.Sprintf("%d%%", resp.FakePercent())),
	}
	if m.sub.Attempts > 1 {
		rows = append(rows, styles.FaintText.Render(fmt.Sprintf("succeeded after %d attempts", m.sub.Attempts)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accent)).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

func barRow(styles Styles, label, bar, value string) string {
	return styles.MutedText.Width(18).Render(label) + bar + " " + styles.Text.Render(value)
}

func (m Model) renderFailure() string {
	styles := m.theme.Styles()
	detail := "Unknown error"
	if m.sub.Err != nil && strings.TrimSpace(m.sub.Err.Detail) != "" {
		detail = m.sub.Err.Detail
	}
	lines := []string{
		styles.DangerText.Render("⚠ " + detail),
	}
	if m.sub.Attempts > 0 {
		lines = append(lines, styles.FaintText.Render(fmt.Sprintf("failed after %d attempt%s", m.sub.Attempts, plural(m.sub.Attempts))))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/checkmate/internal/headline"
)

const inputPlaceholder = "Enter the news headline you want to fact-check..."

func newHeadlineInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	// Room past the limit so an overlong headline can be typed and rejected.
	ta.CharLimit = headline.MaxChars * 2
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()
	return ta
}

// applyTheme pushes the current theme into the bubbles components.
func (m *Model) applyTheme() {
	t := m.theme

	focused, blurred := textarea.DefaultStyles()
	focused.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderFocus))
	focused.Text = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	focused.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
	focused.CursorLine = lipgloss.NewStyle()
	blurred.Base = focused.Base.BorderForeground(lipgloss.Color(t.Border))
	blurred.Text = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted))
	blurred.Placeholder = focused.Placeholder
	m.input.FocusedStyle = focused
	m.input.BlurredStyle = blurred

	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))

	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted))
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))

	width := m.barWidth()
	m.realBar = progress.New(progress.WithSolidFill(t.Success), progress.WithoutPercentage(), progress.WithWidth(width))
	m.fakeBar = progress.New(progress.WithSolidFill(t.Danger), progress.WithoutPercentage(), progress.WithWidth(width))
	m.confidenceBar = progress.New(progress.WithSolidFill(t.Accent), progress.WithoutPercentage(), progress.WithWidth(width))
	for _, bar := range []*progress.Model{&m.realBar, &m.fakeBar, &m.confidenceBar} {
		bar.EmptyColor = t.BorderMuted
	}
}

func (m *Model) resize() {
	m.input.SetWidth(m.inputWidth())
	width := m.barWidth()
	m.realBar.Width = width
	m.fakeBar.Width = width
	m.confidenceBar.Width = width
	m.help.Width = m.width
	m.updateLogViewport()
}

func (m Model) inputWidth() int {
	w := m.width - 6
	if w > InputMaxWidth {
		w = InputMaxWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) barWidth() int {
	w := m.inputWidth() - 24
	if w > BarMaxWidth {
		w = BarMaxWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

// wordCountText renders the live word counter under the input.
func wordCountText(raw string) string {
	n := headline.Measure(raw).Words
	noun := "words"
	if n == 1 {
		noun = "word"
	}
	return fmt.Sprintf("%d %s • Min %d words required", n, noun, headline.MinWords)
}

// charCountText renders the live character counter under the input.
func charCountText(raw string) string {
	return fmt.Sprintf("%d/%d", utf8.RuneCountInString(raw), headline.MaxChars)
}

func (m Model) renderInput() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("News Headline"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	raw := m.input.Value()
	left := wordCountText(raw)
	right := charCountText(raw)
	gap := m.inputWidth() + 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	counterStyle := styles.FaintText
	if utf8.RuneCountInString(raw) > headline.MaxChars {
		counterStyle = styles.DangerText
	}
	b.WriteString(styles.FaintText.Render(left))
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(counterStyle.Render(right))

	if m.validationErr != nil {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render("⚠ " + m.validationErr.Error()))
	}
	return b.String()
}

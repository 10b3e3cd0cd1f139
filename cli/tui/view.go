package tui

import (
	"fmt"
	"strings"
)

const (
	inputHeight = 3
	// chromeHeight covers the header, status and help lines.
	chromeHeight = 5
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" palaver"))
	b.WriteString(subtleStyle.Render(fmt.Sprintf(" (scheme %s)", m.scheme)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	b.WriteString(m.history.View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString(" " + m.spinner.View() + subtleStyle.Render(" generating response..."))
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" ctrl+s send  pgup/pgdn scroll  esc quit"))
	b.WriteString("\n")

	return b.String()
}

// renderHistory renders every exchanged message for the history viewport.
func renderHistory(m *Model) string {
	if len(m.entries) == 0 {
		return subtleStyle.Render("  No messages yet.")
	}

	var b strings.Builder
	for _, e := range m.entries {
		switch e.speaker {
		case speakerUser:
			b.WriteString(userLabelStyle.Render("User:"))
			b.WriteString("\n")
			b.WriteString(strings.TrimRight(e.text, "\n"))
			b.WriteString("\n\n")
		case speakerBot:
			b.WriteString(botLabelStyle.Render("Bot:"))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(m, e.text))
			b.WriteString("\n\n")
		case speakerError:
			b.WriteString(errorStyle.Render("error: " + e.text))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func renderMarkdown(m *Model, text string) string {
	if m.markdown == nil {
		return text
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/deck"
)

// Static styles for console output
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	MenuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD")).
			Bold(true)

	FaceDownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// FormatCard renders a card name in its suit colour
func FormatCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// FormatShortCards renders cards in compact form, e.g. "[A♠ T♥]"
func FormatShortCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = RedCardStyle.Render(c.Short())
		} else {
			parts[i] = BlackCardStyle.Render(c.Short())
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

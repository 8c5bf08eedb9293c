package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("qachat - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		"• Enter         Send question",
		"• Alt+Enter     New line",
		"• Esc           Cancel request",
		"• Alt+Y         Copy last answer",
		"• Alt+D         Demo question",
		"• Alt+F         Search messages",
		"• Alt+H         Toggle this help",
		"• Alt+Q         Quit",
	)

	conversations := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Conversations"),
		"• Alt+N         New conversation",
		"• Alt+J/Alt+K   Next / previous",
		"• Tab           Focus history",
		"• j/k Enter     Move / open",
		"• /             Filter titles",
		"• Ctrl+R        Sync from server",
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Scrolling"),
		"• PgDn/PgUp     Full page",
		"• Alt+g         Jump to top",
		"• Alt+G         Jump to bottom",
	)

	column1 := lipgloss.JoinVertical(lipgloss.Left, chatActions)
	column2 := lipgloss.JoinVertical(lipgloss.Left, conversations, "", navigation)

	columnStyle := lipgloss.NewStyle().Width(36).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render("Press Alt+H or Esc to close this help")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}

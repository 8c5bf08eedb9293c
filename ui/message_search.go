package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"qachat/storage"
)

// searchPageSize is how many results fit on screen at once.
func searchPageSize(height int) int {
	// Border(2) + Padding(2) + Title(1) + Blank(1) + SearchInput(1) + Blank(1) +
	// "Found X matches:"(1) + Blank(1) + Footer(1) + Blank(1) = 12 lines
	fixedOverhead := 12
	scrollIndicatorSpace := 4

	availableLines := height - fixedOverhead - scrollIndicatorSpace
	if availableLines < 3 {
		availableLines = 3
	}

	// Role line + preview, which may wrap, + blank line
	linesPerResult := 5
	if n := availableLines / linesPerResult; n > 0 {
		return n
	}
	return 1
}

func renderMessageSearch(searchInput textinput.Model, results []storage.MessageMatch, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("Search conversations")
	searchView := searchInput.View()

	resultsView := ""
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type to search messages in loaded conversations...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		startIdx := scrollIdx
		endIdx := scrollIdx + searchPageSize(height)
		if endIdx > len(results) {
			endIdx = len(results)
		}

		resultsView = fmt.Sprintf("Found %d matches:\n\n", len(results))

		if startIdx > 0 {
			resultsView += DimStyle.Render(fmt.Sprintf("↑ %d more above\n\n", startIdx))
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle := UserStyle
			roleName := userLabel
			if match.Role == storage.RoleAI {
				roleStyle = AssistantStyle
				roleName = assistantLabel
			}

			header := fmt.Sprintf("%s %s", roleStyle.Render(roleName), DimStyle.Render(match.Title))
			if !match.Timestamp.IsZero() {
				header += " [" + match.Timestamp.Format("Jan 2, 15:04") + "]"
			}
			matchText := header + "\n  " + match.Preview

			if i == selectedIdx {
				matchText = SelectedStyle.Render("> " + matchText)
			} else {
				matchText = "  " + matchText
			}

			resultsView += matchText + "\n\n"
		}

		if endIdx < len(results) {
			resultsView += DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx))
		}
	}

	footer := FormatFooter("Type", "to search", "↑/↓", "Navigate", "Enter", "Open", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

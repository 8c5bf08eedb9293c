package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"qachat/storage"
)

const historyPanelWidth = 30

type historyRow struct {
	id      string
	title   string
	count   int
	pending bool
	active  bool
}

// historyPanel is the conversation sidebar. Its rows are a projection of the store
// and are rebuilt on every store change.
type historyPanel struct {
	store *storage.Store
	rows  []historyRow

	selected  int
	filtering bool
	filter    textinput.Model
}

func newHistoryPanel(store *storage.Store) *historyPanel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.Prompt = "/ "
	filter.CharLimit = 100

	p := &historyPanel{store: store, filter: filter}
	store.Subscribe(func(storage.Change) { p.rebuild() })
	p.rebuild()
	return p
}

func (p *historyPanel) rebuild() {
	convs := p.store.Filter(p.filter.Value())
	activeID := p.store.ActiveID()

	rows := make([]historyRow, 0, len(convs))
	for _, conv := range convs {
		rows = append(rows, historyRow{
			id:      conv.ID,
			title:   conv.Title,
			count:   len(conv.Messages),
			pending: conv.HistoryPending(),
			active:  conv.ID == activeID,
		})
	}
	p.rows = rows

	if p.selected >= len(p.rows) {
		p.selected = len(p.rows) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// selectActive moves the cursor onto the active conversation.
func (p *historyPanel) selectActive() {
	for i, row := range p.rows {
		if row.active {
			p.selected = i
			return
		}
	}
}

func (p *historyPanel) moveDown() {
	if p.selected < len(p.rows)-1 {
		p.selected++
	}
}

func (p *historyPanel) moveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// neighbor returns the conversation delta rows away from the active one.
func (p *historyPanel) neighbor(delta int) (string, bool) {
	if len(p.rows) == 0 {
		return "", false
	}
	p.selectActive()
	idx := p.selected + delta
	if idx < 0 || idx >= len(p.rows) {
		return "", false
	}
	p.selected = idx
	return p.rows[idx].id, true
}

func (p *historyPanel) selectedID() (string, bool) {
	if p.selected < 0 || p.selected >= len(p.rows) {
		return "", false
	}
	return p.rows[p.selected].id, true
}

func (p *historyPanel) startFilter() tea.Cmd {
	p.filtering = true
	return p.filter.Focus()
}

// stopFilter leaves filter mode. clear also drops the query.
func (p *historyPanel) stopFilter(clear bool) {
	p.filtering = false
	p.filter.Blur()
	if clear {
		p.filter.SetValue("")
	}
	p.rebuild()
}

func (p *historyPanel) updateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	before := p.filter.Value()
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.selected = 0
		p.rebuild()
	}
	return cmd
}

func formatHistoryRow(row historyRow, width int) string {
	marker := "  "
	if row.active {
		marker = "● "
	}

	count := fmt.Sprintf("%d", row.count)
	if row.pending {
		count = "…"
	}

	titleWidth := width - runewidth.StringWidth(marker) - runewidth.StringWidth(count) - 1
	if titleWidth < 1 {
		titleWidth = 1
	}
	title := runewidth.Truncate(row.title, titleWidth, "…")
	title = runewidth.FillRight(title, titleWidth)

	return marker + title + " " + DimStyle.Render(count)
}

func (p *historyPanel) View(width, height int, focused bool) string {
	inner := width - 2
	var lines []string

	header := TitleStyle.Render("会话")
	if focused {
		header = SelectedStyle.Render("会话")
	}
	lines = append(lines, header)

	if p.filtering || p.filter.Value() != "" {
		p.filter.Width = inner - 3
		lines = append(lines, p.filter.View())
	}
	lines = append(lines, "")

	if len(p.rows) == 0 {
		lines = append(lines, DimStyle.Render("No conversations"))
	}

	visible := height - len(lines) - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if p.selected >= visible {
		start = p.selected - visible + 1
	}
	end := start + visible
	if end > len(p.rows) {
		end = len(p.rows)
	}

	for i := start; i < end; i++ {
		line := formatHistoryRow(p.rows[i], inner)
		if focused && i == p.selected {
			line = SelectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	style := lipgloss.NewStyle().
		Width(inner).
		Height(height).
		MaxHeight(height).
		PaddingRight(1).
		BorderRight(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor)

	return style.Render(strings.Join(lines, "\n"))
}

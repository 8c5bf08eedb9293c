package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qachat/config"
	appmodel "qachat/model"
	"qachat/storage"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
)

// Options carries the command line state the view starts with.
type Options struct {
	// Prefill is placed in the input box.
	Prefill string
	// Autofetch submits Prefill as soon as the program starts.
	Autofetch bool
}

// autoSubmitMsg triggers the initial submission requested by Options.Autofetch.
type autoSubmitMsg struct{}

type AppView struct {
	// Business logic
	dataModel *appmodel.Model

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	typing   spinner.Model
	ticking  bool
	history  *historyPanel
	markdown MarkdownRenderer

	focus    focusArea
	showHelp bool

	// Message search
	showSearch        bool
	searchInput       textinput.Model
	searchResults     []storage.MessageMatch
	selectedSearchIdx int
	searchScrollIdx   int

	opts Options

	width  int
	height int
	ready  bool
}

func NewAppView(m *appmodel.Model, opts Options) AppView {
	ta := textarea.New()
	ta.Placeholder = "输入问题，Enter 发送，Alt+Enter 换行"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Custom KeyMap: Alt+Enter for newline, Enter alone submits (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	if opts.Prefill != "" {
		ta.SetValue(opts.Prefill)
	}

	typing := spinner.New()
	typing.Spinner = spinner.Points

	searchInput := textinput.New()
	searchInput.Prompt = "Search: "
	searchInput.CharLimit = 100

	return AppView{
		dataModel:   m,
		viewport:    viewport.New(0, 0),
		textarea:    ta,
		typing:      typing,
		history:     newHistoryPanel(m.Store),
		markdown:    NewMarkdownRenderer(m.Config.Render),
		searchInput: searchInput,
		opts:        opts,
	}
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}

	if a.dataModel.Config.SyncOnStart {
		cmds = append(cmds, a.dataModel.FetchSessionList())
	}

	if a.opts.Autofetch && a.opts.Prefill != "" {
		cmds = append(cmds, func() tea.Msg { return autoSubmitMsg{} })
	}

	return tea.Batch(cmds...)
}

func (a AppView) panelWidth() int {
	if a.width < 60 {
		return 0
	}
	return historyPanelWidth
}

func (a *AppView) resize(width, height int) {
	a.width = width
	a.height = height

	// Title(1) + blank(1) + input(3) + status(1) + footer(1)
	viewportHeight := height - 7
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	a.viewport.Width = width - a.panelWidth()
	a.viewport.Height = viewportHeight
	a.textarea.SetWidth(width)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.dataModel.Quitting {
		return ""
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showSearch {
		return renderMessageSearch(a.searchInput, a.searchResults, a.selectedSearchIdx, a.searchScrollIdx, a.width, a.height)
	}

	// Title bar - "qachat - backend - conversation title"
	titleText := AssistantStyle.Render("qachat")
	backendText := TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Backend.Name()))
	convTitle := "-"
	if conv := a.dataModel.Store.Active(); conv != nil {
		convTitle = conv.Title
	}
	convText := UserStyle.Render(fmt.Sprintf(" - %s", convTitle))
	title := titleText + backendText + convText
	if a.dataModel.Config.Mode == config.ModeSingle {
		title += DimStyle.Render(" | single")
	}

	body := a.viewport.View()
	if pw := a.panelWidth(); pw > 0 {
		panel := a.history.View(pw, a.viewport.Height, a.focus == focusHistory)
		body = lipgloss.JoinHorizontal(lipgloss.Top, panel, body)
	}

	status := StatusStyle.Render(a.dataModel.Status)
	if a.dataModel.StatusError {
		status = ErrorStyle.Render(a.dataModel.Status)
	}
	if a.dataModel.Sending {
		status = a.typing.View() + " " + status
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	footer := fmt.Sprintf("Alt+Q %s  Enter %s  Alt+Enter %s  Alt+N %s  Tab %s  Alt+Y %s  Alt+H %s",
		descStyle.Render("Quit"),
		descStyle.Render("Send"),
		descStyle.Render("New Line"),
		descStyle.Render("New"),
		descStyle.Render("History"),
		descStyle.Render("Copy"),
		descStyle.Render("Help"),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		body,
		a.textarea.View(),
		status,
		StatusStyle.Render(footer),
	)
}

package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	appmodel "qachat/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		a.ready = true
		a.updateViewportContent()
		return a, nil

	case spinner.TickMsg:
		// Ticking stops with the request
		if !a.dataModel.Sending {
			a.ticking = false
			return a, nil
		}
		var cmd tea.Cmd
		a.typing, cmd = a.typing.Update(msg)
		if a.dataModel.ShowTyping() {
			a.updateViewportContent()
		}
		return a, cmd

	case autoSubmitMsg:
		return a, a.submit()

	case appmodel.AnswerMsg:
		a.dataModel.HandleAnswer(msg)
		a.updateViewportContent()
		return a, nil

	case appmodel.SessionsListMsg:
		a.dataModel.HandleSessionList(msg)
		a.updateViewportContent()
		return a, nil

	case appmodel.HistoryLoadedMsg:
		a.dataModel.HandleHistory(msg)
		a.updateViewportContent()
		return a, nil

	case appmodel.ClipboardMsg:
		a.dataModel.HandleClipboard(msg)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submit sends the input box content. The input is only cleared when a request
// actually starts.
func (a *AppView) submit() tea.Cmd {
	cmd := a.dataModel.Submit(a.textarea.Value())
	if cmd == nil {
		return nil
	}
	a.textarea.Reset()
	a.history.selectActive()
	a.updateViewportContent()

	// A chain left over from a cancelled request picks the new one up.
	if a.ticking {
		return cmd
	}
	a.ticking = true
	return tea.Batch(cmd, a.typing.Tick)
}

func (a *AppView) selectConversation(id string) tea.Cmd {
	cmd := a.dataModel.SelectConversation(id)
	a.history.selectActive()
	a.updateViewportContent()
	return cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "alt+h", "q":
			a.showHelp = false
		}
		return a, nil
	}

	if a.showSearch {
		return a.handleSearchKey(msg)
	}

	if a.focus == focusHistory {
		return a.handleHistoryKey(msg)
	}

	// Enter without Alt submits. Pasted newlines come in as KeyRunes.
	if msg.Type == tea.KeyEnter && !msg.Alt {
		return a, a.submit()
	}

	switch msg.String() {
	case "alt+q":
		return a.quit()

	case "esc":
		if a.dataModel.CancelInflight() {
			a.updateViewportContent()
		}
		return a, nil

	case "alt+n":
		a.dataModel.NewConversation()
		a.history.selectActive()
		a.updateViewportContent()
		return a, nil

	case "tab":
		if a.panelWidth() > 0 {
			a.focus = focusHistory
			a.history.selectActive()
			a.textarea.Blur()
		}
		return a, nil

	case "alt+j":
		if id, ok := a.history.neighbor(1); ok {
			return a, a.selectConversation(id)
		}
		return a, nil

	case "alt+k":
		if id, ok := a.history.neighbor(-1); ok {
			return a, a.selectConversation(id)
		}
		return a, nil

	case "ctrl+r":
		return a, a.dataModel.FetchSessionList()

	case "alt+y":
		return a, a.dataModel.CopyLastAnswer()

	case "alt+d":
		a.textarea.SetValue(appmodel.DemoQuestion)
		a.dataModel.InputChanged()
		return a, nil

	case "alt+f":
		a.showSearch = true
		a.searchInput.SetValue("")
		a.searchResults = nil
		a.selectedSearchIdx = 0
		a.searchScrollIdx = 0
		return a, a.searchInput.Focus()

	case "alt+h":
		a.showHelp = true
		return a, nil

	case "pgdown":
		a.viewport.PageDown()
		return a, nil

	case "pgup":
		a.viewport.PageUp()
		return a, nil

	case "alt+g":
		a.viewport.GotoTop()
		return a, nil

	case "alt+G":
		a.viewport.GotoBottom()
		return a, nil
	}

	before := a.textarea.Value()
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	if a.textarea.Value() != before {
		a.dataModel.InputChanged()
	}
	return a, cmd
}

func (a AppView) quit() (tea.Model, tea.Cmd) {
	a.dataModel.CancelInflight()
	a.dataModel.Quitting = true
	return a, tea.Quit
}

func (a AppView) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.history.filtering {
		switch msg.String() {
		case "esc":
			a.history.stopFilter(true)
			return a, nil
		case "enter":
			a.history.stopFilter(false)
			return a, nil
		}
		return a, a.history.updateFilter(msg)
	}

	switch msg.String() {
	case "j", "down":
		a.history.moveDown()
	case "k", "up":
		a.history.moveUp()
	case "/":
		return a, a.history.startFilter()
	case "enter":
		id, ok := a.history.selectedID()
		a.focus = focusInput
		cmd := a.textarea.Focus()
		if !ok {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.selectConversation(id))
	case "esc", "tab":
		if a.history.filter.Value() != "" {
			a.history.stopFilter(true)
		}
		a.focus = focusInput
		return a, a.textarea.Focus()
	case "alt+n":
		a.dataModel.NewConversation()
		a.history.selectActive()
		a.updateViewportContent()
	case "alt+q":
		return a.quit()
	}
	return a, nil
}

func (a AppView) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "alt+f":
		a.closeSearch()
		return a, nil

	case "down", "alt+j":
		if a.selectedSearchIdx < len(a.searchResults)-1 {
			a.selectedSearchIdx++
			if a.selectedSearchIdx >= a.searchScrollIdx+searchPageSize(a.height) {
				a.searchScrollIdx++
			}
		}
		return a, nil

	case "up", "alt+k":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
			if a.selectedSearchIdx < a.searchScrollIdx {
				a.searchScrollIdx = a.selectedSearchIdx
			}
		}
		return a, nil

	case "enter":
		if a.selectedSearchIdx >= len(a.searchResults) {
			return a, nil
		}
		match := a.searchResults[a.selectedSearchIdx]
		a.closeSearch()
		return a, a.selectConversation(match.ConversationID)
	}

	var cmd tea.Cmd
	before := a.searchInput.Value()
	a.searchInput, cmd = a.searchInput.Update(msg)
	if a.searchInput.Value() != before {
		a.searchResults = a.dataModel.Store.Search(a.searchInput.Value())
		a.selectedSearchIdx = 0
		a.searchScrollIdx = 0
	}
	return a, cmd
}

func (a *AppView) closeSearch() {
	a.showSearch = false
	a.searchInput.Blur()
	a.searchResults = nil
}

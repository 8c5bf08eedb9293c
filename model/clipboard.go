package model

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// CopyLastAnswer copies the latest answer of the active conversation. Returns nil when
// there is nothing to copy.
func (m *Model) CopyLastAnswer() tea.Cmd {
	answer, ok := m.LastAnswer()
	if !ok || strings.TrimSpace(answer) == "" {
		return nil
	}
	return CopyText(answer)
}

// CopyText writes text to the system clipboard.
func CopyText(text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardMsg{Err: writeClipboard(text)}
	}
}

func (m *Model) HandleClipboard(msg ClipboardMsg) {
	if msg.Err != nil {
		m.SetStatusError(StatusCopyFailed)
		return
	}
	m.SetStatus(StatusCopied)
}

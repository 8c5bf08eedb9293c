package model

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"qachat/config"
	"qachat/storage"
)

// FetchSessionList retrieves the backend's session ids. Returns nil when the backend
// has no sessions (single mode).
func (m *Model) FetchSessionList() tea.Cmd {
	if !m.Backend.SupportsSessions() {
		return nil
	}

	m.SetStatus(StatusSyncing)
	b := m.Backend
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		ids, err := b.ListSessions(ctx)
		return SessionsListMsg{SessionIDs: ids, Err: err}
	}
}

// HandleSessionList hydrates the store. On failure local state is left untouched.
func (m *Model) HandleSessionList(msg SessionsListMsg) {
	if msg.Err != nil {
		config.DebugLog.Error("session list failed", "err", msg.Err)
		m.SetStatusError(fmt.Sprintf("会话列表加载失败: %v", msg.Err))
		return
	}

	m.Store.Replace(msg.SessionIDs)
	m.SetStatus(fmt.Sprintf("已同步 %d 个会话", m.Store.Len()))

	// A request whose conversation was dropped cannot be applied anywhere.
	if convID, ok := m.InflightConversation(); ok && m.Store.Get(convID) == nil {
		m.CancelInflight()
	}
}

// SelectConversation activates id. Switching away from the conversation with the
// outstanding request cancels it. Returns a history fetch when the store asks for one.
func (m *Model) SelectConversation(id string) tea.Cmd {
	if m.Store.Get(id) == nil {
		return nil
	}

	if convID, ok := m.InflightConversation(); ok && convID != id {
		m.CancelInflight()
	}

	conv, needsHistory, ok := m.Store.SetActive(id)
	if !ok || !needsHistory {
		return nil
	}
	return m.LoadHistory(conv)
}

// LoadHistory fetches the full message history of conv's session.
func (m *Model) LoadHistory(conv *storage.Conversation) tea.Cmd {
	if conv == nil || conv.SessionID == "" {
		return nil
	}

	m.SetStatus(StatusLoadingHistory)
	b := m.Backend
	conversationID := conv.ID
	sessionID := conv.SessionID
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		msgs, err := b.History(ctx, sessionID)
		return HistoryLoadedMsg{
			ConversationID: conversationID,
			SessionID:      sessionID,
			Messages:       msgs,
			Err:            err,
		}
	}
}

// HandleHistory installs fetched history. A failed fetch may be retried by selecting
// the conversation again.
func (m *Model) HandleHistory(msg HistoryLoadedMsg) {
	if msg.Err != nil {
		config.DebugLog.Error("history failed", "session", msg.SessionID, "err", msg.Err)
		m.Store.MarkHistoryFailed(msg.ConversationID)
		m.SetStatusError(fmt.Sprintf("历史记录加载失败: %v", msg.Err))
		return
	}

	if !m.Store.LoadHistory(msg.ConversationID, msg.Messages) {
		return
	}
	if !m.Sending {
		m.SetStatus(StatusHistoryLoaded)
	}
}

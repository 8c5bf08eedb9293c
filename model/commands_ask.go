package model

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qachat/backend"
	"qachat/config"
	"qachat/storage"
)

// Submit starts an ask request for input. It returns nil without touching any state
// when the trimmed input is empty or a request is already in flight.
func (m *Model) Submit(input string) tea.Cmd {
	question := strings.TrimSpace(input)
	if question == "" || m.Sending {
		return nil
	}

	conv := m.Store.EnsureActive()
	m.Store.Append(conv.ID, storage.Message{Role: storage.RoleUser, Content: question, Timestamp: time.Now()})
	m.Store.RefreshTitle(conv)

	ctx, cancel := m.requestContext()
	m.nextRequestID++
	m.inflight = &inflightRequest{
		id:             m.nextRequestID,
		conversationID: conv.ID,
		cancel:         cancel,
	}
	m.Sending = true
	m.SetStatus(StatusRequesting)

	requestID := m.nextRequestID
	conversationID := conv.ID
	req := backend.AskRequest{Question: question, SessionID: conv.SessionID}
	b := m.Backend

	config.DebugLog.Debug("ask", "request", requestID, "conversation", conversationID, "session", req.SessionID)

	return func() tea.Msg {
		defer cancel()

		startTime := time.Now()
		result, err := b.Ask(ctx, req)
		config.DebugLog.Debug("ask finished", "request", requestID, "elapsed", time.Since(startTime), "err", err)

		return AnswerMsg{
			RequestID:      requestID,
			ConversationID: conversationID,
			Result:         result,
			Err:            err,
		}
	}
}

// HandleAnswer applies a finished request to the conversation it was sent from.
// Answers to requests that were already cancelled are dropped.
func (m *Model) HandleAnswer(msg AnswerMsg) {
	if m.inflight == nil || m.inflight.id != msg.RequestID {
		config.DebugLog.Debug("dropping stale answer", "request", msg.RequestID)
		return
	}
	m.inflight = nil
	m.Sending = false

	switch {
	case msg.Err == nil:
		m.Store.SetSessionID(msg.ConversationID, msg.Result.SessionID)
		m.Store.Append(msg.ConversationID, storage.Message{Role: storage.RoleAI, Content: msg.Result.Reply, Timestamp: time.Now()})
		m.SetStatus(StatusDone)

	case errors.Is(msg.Err, context.Canceled):
		m.Store.Append(msg.ConversationID, storage.Message{Role: storage.RoleAI, Content: backend.CancelledReply, Timestamp: time.Now()})
		m.SetStatus(StatusCancelled)

	default:
		config.DebugLog.Error("ask failed", "conversation", msg.ConversationID, "err", msg.Err)
		m.Store.Append(msg.ConversationID, storage.Message{Role: storage.RoleAI, Content: backend.FailureReply, Timestamp: time.Now()})
		m.SetStatusError(msg.Err.Error())
	}
}

// CancelInflight aborts the outstanding request, if any, and closes it out in its
// origin conversation right away. The late AnswerMsg is then ignored.
func (m *Model) CancelInflight() bool {
	if m.inflight == nil {
		return false
	}

	req := m.inflight
	m.inflight = nil
	m.Sending = false
	req.cancel()

	config.DebugLog.Debug("ask cancelled", "request", req.id, "conversation", req.conversationID)
	m.Store.Append(req.conversationID, storage.Message{Role: storage.RoleAI, Content: backend.CancelledReply, Timestamp: time.Now()})
	m.SetStatus(StatusCancelled)
	return true
}

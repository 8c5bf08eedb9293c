package model

import (
	"qachat/backend"
	"qachat/storage"
)

// AnswerMsg carries the outcome of one ask request back to the UI goroutine.
type AnswerMsg struct {
	RequestID      uint64
	ConversationID string
	Result         backend.AskResult
	Err            error
}

type SessionsListMsg struct {
	SessionIDs []string
	Err        error
}

type HistoryLoadedMsg struct {
	ConversationID string
	SessionID      string
	Messages       []storage.Message
	Err            error
}

type ClipboardMsg struct {
	Err error
}

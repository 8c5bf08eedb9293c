// Package backend talks to the question-answering service.
//
// Two implementations share the Backend interface: QAService speaks the remote
// service's HTTP protocol, Local answers in-process through an LLM provider.
// Both apply fallback substitution for missing reply fields here, so callers
// always receive displayable text.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qachat/storage"
)

const (
	// FallbackReply replaces a missing reply_message in session mode.
	FallbackReply = "未返回 reply_message 字段"
	// FallbackAnswer replaces a missing answer in single mode.
	FallbackAnswer = "未返回 answer 字段"
	// FailureReply is appended as the assistant message when a request fails.
	FailureReply = "请求失败，请检查服务是否已启动。"
	// CancelledReply is appended when a request is cancelled before it completes.
	CancelledReply = "请求已取消"
)

var (
	ErrSessionsUnsupported = errors.New("backend does not support sessions")
	ErrMalformedResponse   = errors.New("malformed response")
)

// StatusError reports a non-2xx response from the service.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("接口返回 %d", e.Code)
}

type AskRequest struct {
	Question string
	// SessionID is empty on the first message of a conversation.
	SessionID string
}

// AskResult is the decoded reply. Reply is never empty: when the service omits the
// reply field, Reply holds the fallback text and ReplyMissing is set.
type AskResult struct {
	SessionID    string
	Reply        string
	ReplyMissing bool
}

type Backend interface {
	Ask(ctx context.Context, req AskRequest) (AskResult, error)

	// ListSessions returns session ids with the namespace prefix stripped.
	ListSessions(ctx context.Context) ([]string, error)

	// History returns the messages of a session in order.
	History(ctx context.Context, sessionID string) ([]storage.Message, error)

	// SupportsSessions reports whether ListSessions and History are available.
	SupportsSessions() bool

	// Name describes the backend for the status bar.
	Name() string
}

func stripNamespace(id, namespace string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), namespace)
}

// mapRole maps a service role label to a stored role.
func mapRole(role string) storage.Role {
	if role == "assistant" {
		return storage.RoleAI
	}
	return storage.RoleUser
}

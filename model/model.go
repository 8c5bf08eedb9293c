package model

import (
	"context"

	"qachat/backend"
	"qachat/config"
	"qachat/storage"
)

const (
	StatusRequesting      = "正在请求接口..."
	StatusDone            = "请求完成"
	StatusWaiting         = "等待提交"
	StatusCopied          = "已复制到剪贴板"
	StatusCopyFailed      = "复制失败"
	StatusCancelled       = "请求已取消"
	StatusNewConversation = "已创建新会话"
	StatusLoadingHistory  = "正在加载历史记录..."
	StatusHistoryLoaded   = "历史记录已加载"
	StatusSyncing         = "正在同步会话列表..."
)

// DemoQuestion is the sample question offered by the demo prefill.
const DemoQuestion = "请拉一下今年注册选股通，没有领《脱水研报》《早知道》7天试读的手机号清单,以csv形式导出。"

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config  *config.Config
	Backend backend.Backend
	Store   *storage.Store

	// Runtime state (not UI)
	Sending     bool
	Status      string
	StatusError bool
	Quitting    bool

	inflight      *inflightRequest
	nextRequestID uint64

	// Application metadata
	Version string
}

// inflightRequest is the single outstanding ask request.
type inflightRequest struct {
	id             uint64
	conversationID string
	cancel         context.CancelFunc
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, b backend.Backend, store *storage.Store, version string) *Model {
	m := &Model{
		Config:  cfg,
		Backend: b,
		Store:   store,
		Version: version,
		Status:  StatusWaiting,
	}
	store.Subscribe(m.onStoreChange)
	return m
}

func (m *Model) onStoreChange(change storage.Change) {
	if change.Kind == storage.ChangeCreated && !change.Silent {
		m.SetStatus(StatusNewConversation)
	}
}

func (m *Model) SetStatus(text string) {
	m.Status = text
	m.StatusError = false
}

func (m *Model) SetStatusError(text string) {
	m.Status = text
	m.StatusError = true
}

// InputChanged shows the waiting status while the user edits between requests.
func (m *Model) InputChanged() {
	if !m.Sending {
		m.SetStatus(StatusWaiting)
	}
}

// ShowTyping reports whether the active conversation is waiting for a reply.
func (m *Model) ShowTyping() bool {
	return m.Sending && m.inflight != nil && m.inflight.conversationID == m.Store.ActiveID()
}

// InflightConversation returns the conversation id of the outstanding request, if any.
func (m *Model) InflightConversation() (string, bool) {
	if m.inflight == nil {
		return "", false
	}
	return m.inflight.conversationID, true
}

// LastAnswer returns the latest ai message of the active conversation.
func (m *Model) LastAnswer() (string, bool) {
	conv := m.Store.Active()
	if conv == nil {
		return "", false
	}
	return conv.LastAIMessage()
}

// NewConversation cancels any outstanding request and starts an empty conversation.
func (m *Model) NewConversation() *storage.Conversation {
	m.CancelInflight()
	return m.Store.Create(false)
}

// requestContext applies the configured per-request timeout.
func (m *Model) requestContext() (context.Context, context.CancelFunc) {
	if timeout := m.Config.RequestTimeout(); timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

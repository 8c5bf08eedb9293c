package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"qachat/config"
	"qachat/provider"
	"qachat/storage"

	"github.com/google/uuid"
)

// Local answers questions in-process through an LLM provider. Sessions live in
// memory under namespaced keys, mirroring how the remote service lists them.
type Local struct {
	provider     provider.Provider
	systemPrompt string
	namespace    string
	sessionsOn   bool

	mu       sync.Mutex
	sessions map[string][]storage.Message
	order    []string // keys, newest first
}

func NewLocal(p provider.Provider, cfg *config.Config) *Local {
	return &Local{
		provider:     p,
		systemPrompt: cfg.Local.SystemPrompt,
		namespace:    cfg.Service.Namespace,
		sessionsOn:   cfg.SessionsEnabled(),
		sessions:     make(map[string][]storage.Message),
	}
}

func (l *Local) Name() string {
	return "local " + l.provider.DisplayName()
}

func (l *Local) SupportsSessions() bool {
	return l.sessionsOn
}

func (l *Local) Ask(ctx context.Context, req AskRequest) (AskResult, error) {
	if !l.sessionsOn {
		reply, err := l.complete(ctx, nil, req.Question)
		if err != nil {
			return AskResult{}, err
		}
		return newLocalResult("", reply, FallbackAnswer), nil
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	l.mu.Lock()
	history := append([]storage.Message(nil), l.sessions[l.namespace+sessionID]...)
	l.mu.Unlock()

	reply, err := l.complete(ctx, history, req.Question)
	if err != nil {
		return AskResult{}, err
	}

	now := time.Now()
	l.record(sessionID,
		storage.Message{Role: storage.RoleUser, Content: req.Question, Timestamp: now},
		storage.Message{Role: storage.RoleAI, Content: reply, Timestamp: now},
	)

	return newLocalResult(sessionID, reply, FallbackReply), nil
}

func newLocalResult(sessionID, reply, fallback string) AskResult {
	if strings.TrimSpace(reply) == "" {
		return AskResult{SessionID: sessionID, Reply: fallback, ReplyMissing: true}
	}
	return AskResult{SessionID: sessionID, Reply: reply}
}

func (l *Local) complete(ctx context.Context, history []storage.Message, question string) (string, error) {
	turns := append(history, storage.Message{Role: storage.RoleUser, Content: question})
	reply, err := l.provider.Complete(ctx, provider.FromConversation(l.systemPrompt, turns))
	if err != nil {
		return "", fmt.Errorf("local completion failed: %w", err)
	}
	return reply, nil
}

func (l *Local) record(sessionID string, msgs ...storage.Message) {
	key := l.namespace + sessionID

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sessions[key]; !ok {
		l.order = append([]string{key}, l.order...)
	}
	l.sessions[key] = append(l.sessions[key], msgs...)
}

func (l *Local) ListSessions(ctx context.Context) ([]string, error) {
	if !l.sessionsOn {
		return nil, ErrSessionsUnsupported
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.order))
	for _, key := range l.order {
		ids = append(ids, stripNamespace(key, l.namespace))
	}
	return ids, nil
}

// History returns a copy of the session's messages. Unknown sessions are empty.
func (l *Local) History(ctx context.Context, sessionID string) ([]storage.Message, error) {
	if !l.sessionsOn {
		return nil, ErrSessionsUnsupported
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]storage.Message(nil), l.sessions[l.namespace+sessionID]...), nil
}

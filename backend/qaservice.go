package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"qachat/config"
	"qachat/storage"

	"github.com/tidwall/gjson"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// QAService is the HTTP client for the remote question-answering service.
type QAService struct {
	cfg    *config.Config
	client *http.Client
}

// NewQAService creates a client for cfg.Service. A nil client uses http.DefaultClient.
// Timeouts come from the request context.
func NewQAService(cfg *config.Config, client *http.Client) *QAService {
	if client == nil {
		client = http.DefaultClient
	}
	return &QAService{cfg: cfg, client: client}
}

func (s *QAService) Name() string {
	return fmt.Sprintf("qa %s (%s)", s.cfg.Service.BaseURL, s.cfg.Mode)
}

func (s *QAService) SupportsSessions() bool {
	return s.cfg.SessionsEnabled()
}

type chatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// Ask sends a question. In session mode the JSON chat endpoint is used and the
// session id is carried; in single mode the question goes as a form field to the
// single-shot endpoint.
func (s *QAService) Ask(ctx context.Context, req AskRequest) (AskResult, error) {
	if s.cfg.Mode == config.ModeSingle {
		return s.askSingle(ctx, req)
	}

	payload, err := json.Marshal(chatRequest{Question: req.Question, SessionID: req.SessionID})
	if err != nil {
		return AskResult{}, fmt.Errorf("failed to encode question: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ServiceURL(s.cfg.Service.ChatPath), bytes.NewReader(payload))
	if err != nil {
		return AskResult{}, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := s.do(httpReq, "chat")
	if err != nil {
		return AskResult{}, err
	}

	result := AskResult{
		SessionID: stripNamespace(gjson.GetBytes(body, "session_id").String(), s.cfg.Service.Namespace),
	}
	result.Reply, result.ReplyMissing = replyField(body, "reply_message", FallbackReply)
	if result.SessionID == "" {
		result.SessionID = req.SessionID
	}

	config.DebugLog.Debug("chat reply", "session", result.SessionID, "missing", result.ReplyMissing, "bytes", len(body))
	return result, nil
}

func (s *QAService) askSingle(ctx context.Context, req AskRequest) (AskResult, error) {
	var form bytes.Buffer
	w := multipart.NewWriter(&form)
	if err := w.WriteField("question", req.Question); err != nil {
		return AskResult{}, fmt.Errorf("failed to encode question: %w", err)
	}
	if err := w.Close(); err != nil {
		return AskResult{}, fmt.Errorf("failed to encode question: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ServiceURL(s.cfg.Service.AskPath), &form)
	if err != nil {
		return AskResult{}, fmt.Errorf("failed to build ask request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	body, err := s.do(httpReq, "ask")
	if err != nil {
		return AskResult{}, err
	}

	var result AskResult
	result.Reply, result.ReplyMissing = replyField(body, "answer", FallbackAnswer)
	return result, nil
}

// replyField extracts a non-empty string field. Invalid JSON counts as missing.
func replyField(body []byte, field, fallback string) (string, bool) {
	if !gjson.ValidBytes(body) {
		return fallback, true
	}
	reply := gjson.GetBytes(body, field)
	if !reply.Exists() || reply.Type == gjson.Null || reply.String() == "" {
		return fallback, true
	}
	return reply.String(), false
}

// ListSessions reads the first page of the session listing.
func (s *QAService) ListSessions(ctx context.Context) ([]string, error) {
	if !s.SupportsSessions() {
		return nil, ErrSessionsUnsupported
	}

	query := url.Values{}
	query.Set("cursor", "0")
	query.Set("limit", strconv.Itoa(s.cfg.Service.PageLimit))
	endpoint := s.cfg.ServiceURL(s.cfg.Service.ListPath) + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	body, err := s.do(httpReq, "list")
	if err != nil {
		return nil, err
	}

	sessions := gjson.GetBytes(body, "sessions")
	if !gjson.ValidBytes(body) || !sessions.IsArray() {
		return nil, fmt.Errorf("session list: %w", ErrMalformedResponse)
	}

	ids := make([]string, 0, len(sessions.Array()))
	for _, entry := range sessions.Array() {
		if id := stripNamespace(entry.String(), s.cfg.Service.Namespace); id != "" {
			ids = append(ids, id)
		}
	}

	config.DebugLog.Debug("session list", "count", len(ids))
	return ids, nil
}

// History fetches every message of a session.
func (s *QAService) History(ctx context.Context, sessionID string) ([]storage.Message, error) {
	if !s.SupportsSessions() {
		return nil, ErrSessionsUnsupported
	}

	query := url.Values{}
	query.Set("session_id", sessionID)
	endpoint := s.cfg.ServiceURL(s.cfg.Service.HistoryPath) + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build history request: %w", err)
	}

	body, err := s.do(httpReq, "history")
	if err != nil {
		return nil, err
	}

	entries := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !entries.IsArray() {
		return nil, fmt.Errorf("history of %s: %w", sessionID, ErrMalformedResponse)
	}

	var messages []storage.Message
	entries.ForEach(func(_, entry gjson.Result) bool {
		messages = append(messages, storage.Message{
			Role:    mapRole(entry.Get("role").String()),
			Content: entry.Get("content").String(),
		})
		return true
	})

	config.DebugLog.Debug("history loaded", "session", sessionID, "messages", len(messages))
	return messages, nil
}

// do sends req and returns the body of a 2xx response.
func (s *QAService) do(req *http.Request, op string) ([]byte, error) {
	config.DebugLog.Debug("request", "op", op, "method", req.Method, "url", req.URL.String())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		config.DebugLog.Warn("non-success status", "op", op, "status", resp.StatusCode)
		return nil, &StatusError{Op: op, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s response read failed: %w", op, err)
	}
	return body, nil
}

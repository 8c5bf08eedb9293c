package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"qachat/config"
	"qachat/storage"
)

func newTestService(t *testing.T, mode config.Mode, handler http.HandlerFunc) *QAService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Mode = mode
	cfg.Service.BaseURL = srv.URL
	return NewQAService(cfg, srv.Client())
}

func TestAskOmitsSessionIDOnFirstMessage(t *testing.T) {
	var bodies []map[string]any
	svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/chat" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		bodies = append(bodies, body)
		w.Write([]byte(`{"session_id":"s-1","reply_message":"**hi**"}`))
	})

	res, err := svc.Ask(context.Background(), AskRequest{Question: "hello"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if res.SessionID != "s-1" || res.Reply != "**hi**" || res.ReplyMissing {
		t.Errorf("result = %+v", res)
	}

	if _, err := svc.Ask(context.Background(), AskRequest{Question: "again", SessionID: "s-1"}); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if _, ok := bodies[0]["session_id"]; ok {
		t.Error("first request carried session_id")
	}
	if bodies[0]["question"] != "hello" {
		t.Errorf("question = %v", bodies[0]["question"])
	}
	if bodies[1]["session_id"] != "s-1" {
		t.Errorf("second request session_id = %v", bodies[1]["session_id"])
	}
}

func TestAskFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing reply_message", body: `{"session_id":"s-1"}`},
		{name: "empty reply_message", body: `{"session_id":"s-1","reply_message":""}`},
		{name: "null reply_message", body: `{"session_id":"s-1","reply_message":null}`},
		{name: "not json", body: `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			res, err := svc.Ask(context.Background(), AskRequest{Question: "q"})
			if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}
			if res.Reply != FallbackReply || !res.ReplyMissing {
				t.Errorf("result = %+v, want fallback", res)
			}
		})
	}
}

func TestAskSingleMode(t *testing.T) {
	svc := newTestService(t, config.ModeSingle, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/temporal" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.FormValue("question"); got != "导出清单" {
			t.Errorf("question field = %q", got)
		}
		w.Write([]byte(`{"answer":"done"}`))
	})

	res, err := svc.Ask(context.Background(), AskRequest{Question: "导出清单", SessionID: "ignored"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if res.Reply != "done" || res.SessionID != "" {
		t.Errorf("result = %+v", res)
	}
}

func TestAskSingleModeMissingAnswer(t *testing.T) {
	svc := newTestService(t, config.ModeSingle, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	res, err := svc.Ask(context.Background(), AskRequest{Question: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != FallbackAnswer {
		t.Errorf("Reply = %q, want %q", res.Reply, FallbackAnswer)
	}
}

func TestAskNonSuccessStatus(t *testing.T) {
	svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.Ask(context.Background(), AskRequest{Question: "q"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusBadGateway {
		t.Errorf("Code = %d", statusErr.Code)
	}
	if err.Error() != "接口返回 502" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestAskCancelled(t *testing.T) {
	svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply_message":"late"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Ask(ctx, AskRequest{Question: "q"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestListSessionsStripsNamespace(t *testing.T) {
	svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/sessions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("cursor") != "0" || r.URL.Query().Get("limit") != "20" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"sessions":["chatHistory:abc123","chatHistory:def456"]}`))
	})

	ids, err := svc.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "abc123" || ids[1] != "def456" {
		t.Errorf("ids = %v, want [abc123 def456]", ids)
	}
}

func TestListSessionsMalformed(t *testing.T) {
	svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})

	if _, err := svc.ListSessions(context.Background()); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestSessionsUnsupportedInSingleMode(t *testing.T) {
	svc := newTestService(t, config.ModeSingle, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	if svc.SupportsSessions() {
		t.Error("SupportsSessions() = true in single mode")
	}
	if _, err := svc.ListSessions(context.Background()); !errors.Is(err, ErrSessionsUnsupported) {
		t.Errorf("ListSessions error = %v", err)
	}
	if _, err := svc.History(context.Background(), "x"); !errors.Is(err, ErrSessionsUnsupported) {
		t.Errorf("History error = %v", err)
	}
}

func TestHistoryMapsRoles(t *testing.T) {
	svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session_id"); got != "abc123" {
			t.Errorf("session_id = %q", got)
		}
		w.Write([]byte(`[{"role":"assistant","content":"hi"},{"role":"user","content":"hello"},{"role":"system","content":"x"}]`))
	})

	msgs, err := svc.History(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}

	want := []storage.Message{
		{Role: storage.RoleAI, Content: "hi"},
		{Role: storage.RoleUser, Content: "hello"},
		{Role: storage.RoleUser, Content: "x"},
	}
	if len(msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(want))
	}
	for i := range want {
		if msgs[i].Role != want[i].Role || msgs[i].Content != want[i].Content {
			t.Errorf("message %d = %s/%q, want %s/%q", i, msgs[i].Role, msgs[i].Content, want[i].Role, want[i].Content)
		}
	}
}

func TestHistoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "object instead of array", status: http.StatusOK, body: `{"role":"user"}`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, config.ModeSession, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := svc.History(context.Background(), "abc")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

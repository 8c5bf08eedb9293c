package backend

import (
	"context"
	"errors"
	"testing"

	"qachat/config"
	"qachat/provider"
	"qachat/provider/testutil"
)

func TestLocalAskKeepsSessionContext(t *testing.T) {
	mock := testutil.NewMockProvider("test-model")
	cfg := config.DefaultConfig()
	cfg.Local.SystemPrompt = "be brief"
	local := NewLocal(mock, cfg)

	first, err := local.Ask(context.Background(), AskRequest{Question: "one"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if first.SessionID == "" {
		t.Fatal("first Ask did not assign a session id")
	}
	if first.Reply != "Mock response: one" {
		t.Errorf("Reply = %q", first.Reply)
	}

	if _, err := local.Ask(context.Background(), AskRequest{Question: "two", SessionID: first.SessionID}); err != nil {
		t.Fatal(err)
	}

	calls := mock.Calls()
	// system + one, answer, two
	if got := len(calls[1]); got != 4 {
		t.Fatalf("second call had %d messages, want 4", got)
	}
	if calls[1][0].Role != provider.RoleSystem || calls[1][2].Role != provider.RoleAssistant {
		t.Errorf("roles = %s, %s", calls[1][0].Role, calls[1][2].Role)
	}

	ids, _ := local.ListSessions(context.Background())
	if len(ids) != 1 || ids[0] != first.SessionID {
		t.Errorf("ListSessions() = %v", ids)
	}

	history, _ := local.History(context.Background(), first.SessionID)
	if len(history) != 4 {
		t.Errorf("History() has %d messages, want 4", len(history))
	}
}

func TestLocalEmptyReplyFallsBack(t *testing.T) {
	mock := testutil.NewMockProvider("test-model")
	mock.CompleteFunc = func(ctx context.Context, messages []provider.Message) (string, error) {
		return "  ", nil
	}
	local := NewLocal(mock, config.DefaultConfig())

	res, err := local.Ask(context.Background(), AskRequest{Question: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != FallbackReply || !res.ReplyMissing {
		t.Errorf("result = %+v", res)
	}
}

func TestLocalProviderError(t *testing.T) {
	mock := testutil.NewMockProvider("test-model")
	mock.CompleteFunc = func(ctx context.Context, messages []provider.Message) (string, error) {
		return "", context.DeadlineExceeded
	}
	local := NewLocal(mock, config.DefaultConfig())

	_, err := local.Ask(context.Background(), AskRequest{Question: "q"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want wrapped DeadlineExceeded", err)
	}
	if ids, _ := local.ListSessions(context.Background()); len(ids) != 0 {
		t.Error("failed ask created a session")
	}
}

func TestLocalSingleMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeSingle
	local := NewLocal(testutil.NewMockProvider("m"), cfg)

	res, err := local.Ask(context.Background(), AskRequest{Question: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionID != "" {
		t.Errorf("single mode assigned session %q", res.SessionID)
	}
	if _, err := local.ListSessions(context.Background()); !errors.Is(err, ErrSessionsUnsupported) {
		t.Errorf("ListSessions error = %v", err)
	}
}

func TestNewBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := b.(*QAService); !ok {
		t.Errorf("New() = %T, want *QAService", b)
	}

	cfg.Backend = config.BackendLocal
	b, err = New(cfg)
	if err != nil {
		t.Fatalf("New(local) error = %v", err)
	}
	if _, ok := b.(*Local); !ok {
		t.Errorf("New(local) = %T, want *Local", b)
	}
}

func TestNewCheckedLocalPing(t *testing.T) {
	cfg := config.DefaultConfig()

	mock := testutil.NewMockProvider("test-model")
	local, err := newCheckedLocal(context.Background(), mock, cfg)
	if err != nil || local == nil {
		t.Fatalf("newCheckedLocal() = %v, %v", local, err)
	}

	down := errors.New("connection refused")
	mock.PingFunc = func(ctx context.Context) error { return down }
	local, err = newCheckedLocal(context.Background(), mock, cfg)
	if !errors.Is(err, down) {
		t.Errorf("error = %v, want wrapped %v", err, down)
	}
	if local != nil {
		t.Error("unreachable provider produced a backend")
	}
}

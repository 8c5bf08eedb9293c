package backend

import (
	"context"
	"fmt"
	"time"

	"qachat/config"
	"qachat/provider"
)

// pingTimeout bounds the reachability check made before the TUI starts.
const pingTimeout = 5 * time.Second

// New creates the backend selected by cfg.Backend. A local provider must answer
// a ping first, so an unreachable model server fails at startup instead of on
// the first question.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.Backend {
	case config.BackendQA:
		return NewQAService(cfg, nil), nil
	case config.BackendLocal:
		p, err := provider.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		return newCheckedLocal(ctx, p, cfg)
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

func newCheckedLocal(ctx context.Context, p provider.Provider, cfg *config.Config) (*Local, error) {
	if err := p.Ping(ctx); err != nil {
		config.DebugLog.Error("provider ping failed", "provider", p.DisplayName(), "err", err)
		return nil, fmt.Errorf("%s is not reachable: %w", p.DisplayName(), err)
	}
	return NewLocal(p, cfg), nil
}

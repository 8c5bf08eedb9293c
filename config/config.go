package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mode selects which QA endpoint family the client talks to.
type Mode string

const (
	// ModeSession uses the session-aware chat endpoint plus session listing/history.
	ModeSession Mode = "session"
	// ModeSingle uses the single-shot form endpoint; no sessions.
	ModeSingle Mode = "single"
)

// BackendKind selects the transport behind the client.
type BackendKind string

const (
	BackendQA    BackendKind = "qa"
	BackendLocal BackendKind = "local"
)

const (
	MarkdownTerm    = "term"
	MarkdownGlamour = "glamour"
)

type ServiceConfig struct {
	BaseURL        string `toml:"base_url"`
	ChatPath       string `toml:"chat_path"`
	AskPath        string `toml:"ask_path"`
	ListPath       string `toml:"list_path"`
	HistoryPath    string `toml:"history_path"`
	Namespace      string `toml:"namespace"`
	PageLimit      int    `toml:"page_limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type RenderConfig struct {
	Markdown     string `toml:"markdown"`
	GlamourStyle string `toml:"glamour_style"`
}

// LocalConfig configures the in-process backend that answers through an LLM provider.
type LocalConfig struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	BaseURL      string `toml:"base_url"`
	APIKeyEnv    string `toml:"api_key_env"`
	SystemPrompt string `toml:"system_prompt,omitempty"`
}

type EmbedConfig struct {
	BaseURL string `toml:"base_url"`
}

type Config struct {
	Mode        Mode          `toml:"mode"`
	Backend     BackendKind   `toml:"backend"`
	SyncOnStart bool          `toml:"sync_on_start"`
	Service     ServiceConfig `toml:"service"`
	Render      RenderConfig  `toml:"render"`
	Local       LocalConfig   `toml:"local"`
	Embed       EmbedConfig   `toml:"embed"`
}

// ServiceURL joins the configured base URL and an endpoint path.
func (c *Config) ServiceURL(path string) string {
	return strings.TrimRight(c.Service.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Config) RequestTimeout() time.Duration {
	if c.Service.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Service.TimeoutSeconds) * time.Second
}

// SessionsEnabled reports whether remote session sync applies to this configuration.
func (c *Config) SessionsEnabled() bool {
	return c.Mode == ModeSession
}

// LocalAPIKey resolves the API key for the local backend from the configured env var.
func (c *Config) LocalAPIKey() string {
	if c.Local.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Local.APIKeyEnv)
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSession, ModeSingle:
	default:
		return fmt.Errorf("invalid mode %q (want %q or %q)", c.Mode, ModeSession, ModeSingle)
	}

	switch c.Backend {
	case BackendQA:
		u, err := url.Parse(c.Service.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid service base_url %q", c.Service.BaseURL)
		}
	case BackendLocal:
		if c.Local.Provider == "" {
			return errors.New("local backend requires local.provider")
		}
	default:
		return fmt.Errorf("invalid backend %q (want %q or %q)", c.Backend, BackendQA, BackendLocal)
	}

	switch c.Render.Markdown {
	case MarkdownTerm, MarkdownGlamour:
	default:
		return fmt.Errorf("invalid render.markdown %q (want %q or %q)", c.Render.Markdown, MarkdownTerm, MarkdownGlamour)
	}

	if c.Service.PageLimit <= 0 {
		return fmt.Errorf("service.page_limit must be positive, got %d", c.Service.PageLimit)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if baseURL := os.Getenv("QACHAT_BASE_URL"); baseURL != "" {
		c.Service.BaseURL = baseURL
	}
	if mode := os.Getenv("QACHAT_MODE"); mode != "" {
		c.Mode = Mode(strings.ToLower(mode))
	}
	if backend := os.Getenv("QACHAT_BACKEND"); backend != "" {
		c.Backend = BackendKind(strings.ToLower(backend))
	}
}

// loadDotEnv loads ./.env when present. A missing file is not an error.
func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads the config file at path (the default location when empty), creating it
// from the template on first run, then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if path == "" {
		path = GetConfigFilePath()
	}
	path = ExpandPath(path)

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	DebugLog.Debug("config loaded", "path", path, "mode", cfg.Mode, "backend", cfg.Backend)
	return cfg, nil
}

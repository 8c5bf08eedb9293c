package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qachat", "config.toml")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !FileExists(path) {
		t.Fatal("LoadFile() did not create the config template")
	}
	if cfg.Mode != ModeSession || cfg.Backend != BackendQA {
		t.Errorf("defaults not applied: mode=%q backend=%q", cfg.Mode, cfg.Backend)
	}

	// The template itself must decode to a valid configuration.
	reloaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(template) error = %v", err)
	}
	if err := reloaded.Validate(); err != nil {
		t.Errorf("template does not validate: %v", err)
	}
	if reloaded.Service.Namespace != DefaultNamespace {
		t.Errorf("namespace = %q, want %q", reloaded.Service.Namespace, DefaultNamespace)
	}
}

func TestLoadFilePartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `mode = "single"

[service]
base_url = "http://qa.internal:9000"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Mode != ModeSingle {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeSingle)
	}
	if cfg.Service.BaseURL != "http://qa.internal:9000" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Service.PageLimit != DefaultPageLimit {
		t.Errorf("PageLimit = %d, want %d", cfg.Service.PageLimit, DefaultPageLimit)
	}
	if cfg.Service.AskPath != DefaultAskPath {
		t.Errorf("AskPath = %q, want %q", cfg.Service.AskPath, DefaultAskPath)
	}
}

func TestLoadFileInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("mode = = broken"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("QACHAT_BASE_URL", "http://override:1234")
	t.Setenv("QACHAT_MODE", "SINGLE")
	t.Setenv("QACHAT_BACKEND", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.BaseURL != "http://override:1234" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if cfg.Mode != ModeSingle {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeSingle)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "stream" }, wantErr: true},
		{name: "bad backend", mutate: func(c *Config) { c.Backend = "grpc" }, wantErr: true},
		{name: "relative base url", mutate: func(c *Config) { c.Service.BaseURL = "/ai" }, wantErr: true},
		{name: "local without provider", mutate: func(c *Config) {
			c.Backend = BackendLocal
			c.Local.Provider = ""
		}, wantErr: true},
		{name: "local ignores base url", mutate: func(c *Config) {
			c.Backend = BackendLocal
			c.Service.BaseURL = ""
		}},
		{name: "bad renderer", mutate: func(c *Config) { c.Render.Markdown = "html" }, wantErr: true},
		{name: "zero page limit", mutate: func(c *Config) { c.Service.PageLimit = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestServiceURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.BaseURL = "http://localhost:8081/"

	if got := cfg.ServiceURL("/ai/chat"); got != "http://localhost:8081/ai/chat" {
		t.Errorf("ServiceURL() = %q", got)
	}
	if got := cfg.ServiceURL("ai/history"); got != "http://localhost:8081/ai/history" {
		t.Errorf("ServiceURL() = %q", got)
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.RequestTimeout(); got != 120*time.Second {
		t.Errorf("RequestTimeout() = %v", got)
	}
	cfg.Service.TimeoutSeconds = 0
	if got := cfg.RequestTimeout(); got != 0 {
		t.Errorf("RequestTimeout() = %v, want 0", got)
	}
}

func TestInitDebugLogDisabled(t *testing.T) {
	t.Setenv("QACHAT_DEBUG", "")
	dir := t.TempDir()

	if err := InitDebugLog(dir, false); err != nil {
		t.Fatalf("InitDebugLog() error = %v", err)
	}
	if FileExists(filepath.Join(dir, "debug.log")) {
		t.Error("debug log created while debugging is off")
	}
}

func TestInitDebugLogForced(t *testing.T) {
	dir := t.TempDir()

	if err := InitDebugLog(dir, true); err != nil {
		t.Fatalf("InitDebugLog() error = %v", err)
	}
	defer CloseDebugLog()

	DebugLog.Debug("hello", "k", "v")
	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("reading debug log: %v", err)
	}
	if len(data) == 0 {
		t.Error("debug log is empty")
	}
}

func TestCloseDebugLogKeepsLogger(t *testing.T) {
	dir := t.TempDir()
	logger := DebugLog

	if err := InitDebugLog(dir, true); err != nil {
		t.Fatalf("InitDebugLog() error = %v", err)
	}
	if DebugLog != logger {
		t.Fatal("InitDebugLog replaced the shared logger")
	}
	if err := CloseDebugLog(); err != nil {
		t.Fatalf("CloseDebugLog() error = %v", err)
	}
	if DebugLog != logger {
		t.Fatal("CloseDebugLog replaced the shared logger")
	}

	path := filepath.Join(dir, "debug.log")
	before, _ := os.ReadFile(path)
	DebugLog.Error("after close")
	after, _ := os.ReadFile(path)
	if len(after) != len(before) {
		t.Error("logger still writes to the closed file")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("QACHAT_TEST_DIR", "/srv/qachat")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~/x.toml", "/home/tester/x.toml"},
		{"$QACHAT_TEST_DIR/config.toml", "/srv/qachat/config.toml"},
		{"./conf/../x.toml", "x.toml"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

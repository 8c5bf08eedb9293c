package config

const (
	DefaultBaseURL     = "http://localhost:8081"
	DefaultChatPath    = "/ai/chat"
	DefaultAskPath     = "/ai/temporal"
	DefaultListPath    = "/ai/sessions"
	DefaultHistoryPath = "/ai/history"
	DefaultNamespace   = "chatHistory:"
	DefaultPageLimit   = 20
	DefaultTimeout     = 120
)

func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeSession,
		Backend:     BackendQA,
		SyncOnStart: true,
		Service: ServiceConfig{
			BaseURL:        DefaultBaseURL,
			ChatPath:       DefaultChatPath,
			AskPath:        DefaultAskPath,
			ListPath:       DefaultListPath,
			HistoryPath:    DefaultHistoryPath,
			Namespace:      DefaultNamespace,
			PageLimit:      DefaultPageLimit,
			TimeoutSeconds: DefaultTimeout,
		},
		Render: RenderConfig{
			Markdown:     MarkdownTerm,
			GlamourStyle: "dark",
		},
		Local: LocalConfig{
			Provider: "ollama",
			Model:    "llama3.1:latest",
			BaseURL:  "http://localhost:11434",
		},
		Embed: EmbedConfig{
			BaseURL: "http://localhost:8080/",
		},
	}
}

func GenerateConfigTemplate() string {
	return `# qachat configuration
# Location: ~/.config/qachat/config.toml
# This file uses TOML format: https://toml.io

# "session": chat endpoint with backend sessions and history sidebar sync
# "single":  single-shot form endpoint, no sessions
mode = "session"

# "qa":    remote QA service
# "local": in-process stand-in answering through an LLM provider
backend = "qa"

# Load the remote session list when the client starts
sync_on_start = true

[service]
base_url = "http://localhost:8081"
chat_path = "/ai/chat"
ask_path = "/ai/temporal"
list_path = "/ai/sessions"
history_path = "/ai/history"
# Prefix the service puts in front of listed session ids
namespace = "chatHistory:"
page_limit = 20
# 0 disables the per-request timeout
timeout_seconds = 120

[render]
# "term" (go-term-markdown) or "glamour"
markdown = "term"
glamour_style = "dark"

[local]
# ollama, openai, openrouter or anthropic
provider = "ollama"
model = "llama3.1:latest"
# Ollama server URL; set to "" for the public endpoint of a cloud provider
base_url = "http://localhost:11434"
# Name of the environment variable holding the API key (cloud providers only)
api_key_env = ""

[embed]
# Page that hosts the embeddable client; used by "qachat embed"
base_url = "http://localhost:8080/"
`
}

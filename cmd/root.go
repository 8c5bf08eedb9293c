package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"qachat/backend"
	"qachat/config"
	"qachat/model"
	"qachat/storage"
	"qachat/ui"
)

var version = "v0.1.0"

// SetVersion sets version information from ldflags.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

type rootOptions struct {
	question   string
	autofetch  bool
	demo       bool
	mode       string
	backend    string
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "qachat",
		Short: "Terminal chat client for a question-answering service",
		Long: `qachat talks to a question-answering HTTP service and keeps one conversation
per backend session. Past sessions are listed in the sidebar and their history is
fetched on demand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.question, "question", "", "Prefill the input with a question")
	flags.BoolVar(&opts.autofetch, "autofetch", false, "Submit the prefilled question on start")
	flags.BoolVar(&opts.demo, "demo", false, "Prefill the demo question")
	flags.StringVar(&opts.mode, "mode", "", "Conversation mode: session or single")
	flags.StringVar(&opts.backend, "backend", "", "Backend: qa or local")
	flags.StringVar(&opts.configPath, "config", "", "Config file path (default ~/.config/qachat/config.toml)")
	flags.BoolVar(&opts.debug, "debug", false, "Write a debug log to the cache directory")

	cmd.AddCommand(newEmbedCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.mode != "" {
		cfg.Mode = config.Mode(strings.ToLower(opts.mode))
	}
	if opts.backend != "" {
		cfg.Backend = config.BackendKind(strings.ToLower(opts.backend))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command line option: %w", err)
	}
	return cfg, nil
}

// initialInput resolves the prefill flags. --question wins over --demo.
func initialInput(opts *rootOptions) ui.Options {
	prefill := opts.question
	if prefill == "" && opts.demo {
		prefill = model.DemoQuestion
	}
	return ui.Options{Prefill: prefill, Autofetch: opts.autofetch}
}

func showError(title, message string) error {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return fmt.Errorf("%s: %s", title, message)
}

func runTUI(opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return showError("Configuration Error", err.Error())
	}

	if err := config.InitDebugLog(config.GetCacheDir(), opts.debug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer config.CloseDebugLog()

	b, err := backend.New(cfg)
	if err != nil {
		return showError("Backend Error", err.Error())
	}

	config.DebugLog.Info("starting", "version", version, "backend", b.Name(), "mode", cfg.Mode)

	dataModel := model.NewModel(cfg, b, storage.NewStore(), version)
	app := ui.NewAppView(dataModel, initialInput(opts))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

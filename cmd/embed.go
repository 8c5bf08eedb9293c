package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"qachat/config"
	"qachat/model"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func newEmbedCmd() *cobra.Command {
	var (
		question   string
		baseURL    string
		configPath string
		copySnip   bool
	)

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Print an iframe snippet that opens the chat page with a question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				baseURL = cfg.Embed.BaseURL
			}

			snippet := model.EmbedSnippet(baseURL, question)
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), snippet); err != nil {
				return err
			}

			if copySnip {
				if err := writeClipboard(snippet); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), model.StatusCopied)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&question, "question", "", "Question to prefill (a placeholder when empty)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Page URL (default from [embed] base_url)")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	cmd.Flags().BoolVar(&copySnip, "copy", false, "Also copy the snippet to the clipboard")
	return cmd
}

package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"qachat/config"
	"qachat/storage"
)

// EmptyPlaceholder is shown for a conversation without messages.
const EmptyPlaceholder = "暂无内容"

const (
	userLabel      = "你"
	assistantLabel = "助手"
)

// RenderConversation draws conv for a chat pane of the given width. User text is shown
// verbatim with escape sequences removed, answers go through md. typingFrame is the
// current frame of the typing indicator, drawn as a trailing row when showTyping is set.
func RenderConversation(conv *storage.Conversation, showTyping bool, typingFrame string, width int, md MarkdownRenderer) string {
	if conv == nil || (len(conv.Messages) == 0 && !showTyping) {
		return DimStyle.Render(EmptyPlaceholder)
	}

	contentWidth := width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}

	var content strings.Builder

	for _, msg := range conv.Messages {
		if msg.Role == storage.RoleUser {
			content.WriteString(formatUserMessage(messageHeader(msg, UserStyle.Render(userLabel)), sanitizeUserText(msg.Content)))
			continue
		}

		rendered, err := md.Render(msg.Content, contentWidth)
		if err != nil {
			config.DebugLog.Warn("markdown render failed, showing raw text", "err", err)
			rendered = msg.Content
		}
		content.WriteString(fmt.Sprintf("%s\n%s\n\n", messageHeader(msg, AssistantStyle.Render(assistantLabel)), rendered))
	}

	if showTyping {
		content.WriteString(fmt.Sprintf("%s\n%s\n", AssistantStyle.Render(assistantLabel), AssistantStyle.Render(typingFrame)))
	}

	return strings.TrimRight(content.String(), "\n")
}

// messageHeader prefixes role with the send time. Messages restored from a
// session history carry no time and get the bare role.
func messageHeader(msg storage.Message, role string) string {
	if msg.Timestamp.IsZero() {
		return role
	}
	return DimStyle.Render(msg.Timestamp.Format("[15:04]")) + " " + role
}

// sanitizeUserText removes escape sequences and control characters other than
// newline and tab, so typed or pasted text cannot move the cursor or ring the bell.
func sanitizeUserText(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, ansi.Strip(text))
}

func formatUserMessage(header, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "▌" + reset

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s\n", bar, header))

	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

// updateViewportContent redraws the active conversation and pins the view to the bottom.
func (a *AppView) updateViewportContent() {
	content := RenderConversation(
		a.dataModel.Store.Active(),
		a.dataModel.ShowTyping(),
		a.typing.View(),
		a.viewport.Width,
		a.markdown,
	)
	a.viewport.SetContent(content)
	a.viewport.GotoBottom()
}

package model

import (
	"fmt"
	"net/url"
	"strings"
)

// EmbedPlaceholderQuestion is used when the embed snippet is built without a question.
const EmbedPlaceholderQuestion = "在这里输入问题"

const embedStyle = "width:100%;max-width:720px;height:480px;border:1px solid #e5e7eb;border-radius:12px;"

// EmbedURL returns the page URL that opens with question prefilled and auto-submitted.
func EmbedURL(base, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		question = EmbedPlaceholderQuestion
	}
	return base + "?question=" + url.QueryEscape(question) + "&autofetch=1"
}

// EmbedSnippet returns an iframe tag that embeds the chat page for question.
func EmbedSnippet(base, question string) string {
	src := EmbedURL(base, question)
	return fmt.Sprintf(`<iframe src="%s" style="%s" title="RAG助手"></iframe>`, strings.ReplaceAll(src, `"`, "%22"), embedStyle)
}

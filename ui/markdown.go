package ui

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/glamour"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"qachat/config"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const codeBar = "┃"

// MarkdownRenderer turns an answer into terminal text wrapped to width.
type MarkdownRenderer interface {
	Render(text string, width int) (string, error)
}

// NewMarkdownRenderer returns the renderer selected by render.markdown, with a cache
// in front of it.
func NewMarkdownRenderer(cfg config.RenderConfig) MarkdownRenderer {
	var r MarkdownRenderer
	switch cfg.Markdown {
	case config.MarkdownGlamour:
		r = newGlamourMarkdown(cfg.GlamourStyle)
	default:
		r = termMarkdown{}
	}
	return newCachedMarkdown(r)
}

// termMarkdown renders with go-term-markdown. Single newlines in answers are kept.
type termMarkdown struct{}

func (termMarkdown) Render(text string, width int) (out string, err error) {
	// go-term-markdown panics on a few malformed inputs (nested tables, odd lists).
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown render panic: %v", r)
		}
	}()

	if width < 10 {
		width = 10
	}

	// Strip markdown link syntax [text](url) so every link shows as a plain url
	text = preprocessLinks(text)

	ext := (markdown.Extensions() &^ parser.Autolink) | parser.HardLineBreak
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(text))
	rendered := gomarkdown.Render(doc, r)

	return postProcessMarkdown(strings.TrimRight(string(rendered), "\n"), width), nil
}

// glamourMarkdown keeps one glamour renderer per wrap width.
type glamourMarkdown struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

func newGlamourMarkdown(style string) *glamourMarkdown {
	if style == "" {
		style = "dark"
	}
	return &glamourMarkdown{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

func (g *glamourMarkdown) Render(text string, width int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(g.style),
			glamour.WithWordWrap(width),
			glamour.WithPreservedNewLines(),
		)
		if err != nil {
			return "", fmt.Errorf("glamour renderer: %w", err)
		}
		g.renderers[width] = r
	}

	out, err := r.Render(text)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

type renderKey struct {
	width int
	text  string
}

// cachedMarkdown memoizes rendered answers. A width change drops every entry.
type cachedMarkdown struct {
	next MarkdownRenderer

	mu    sync.Mutex
	width int
	cache map[renderKey]string
}

func newCachedMarkdown(next MarkdownRenderer) *cachedMarkdown {
	return &cachedMarkdown{next: next, cache: make(map[renderKey]string)}
}

func (c *cachedMarkdown) Render(text string, width int) (string, error) {
	c.mu.Lock()
	if width != c.width {
		c.cache = make(map[renderKey]string)
		c.width = width
	}
	if out, ok := c.cache[renderKey{width, text}]; ok {
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	startTime := time.Now()
	out, err := c.next.Render(text, width)
	if err != nil {
		return "", err
	}
	config.DebugLog.Debug("markdown rendered", "chars", len(text), "elapsed", time.Since(startTime))

	c.mu.Lock()
	c.cache[renderKey{width, text}] = out
	c.mu.Unlock()
	return out, nil
}

func postProcessMarkdown(rendered string, width int) string {
	// 1. Fix inline code: Blue background → Red text
	rendered = fixInlineCode(rendered)

	// 2. Color plain URLs red (autolink disabled keeps URLs plain)
	rendered = fixMarkdownLinks(rendered)

	// 3. Frame code blocks with dark gray horizontal lines
	rendered = frameCodeBlocks(rendered, width)

	return rendered
}

func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// \x1b[44;3m...\x1b[0m (Blue BG + Italic) → \x1b[31m...\x1b[0m (Red text)
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Code block lines carry the bar prefix and are left alone
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}

	return strings.Join(lines, "\n")
}

func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	var codeBlockLines []string
	inCodeBlock := false

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"

	ruleWidth := width - 4
	if ruleWidth < 8 {
		ruleWidth = 8
	}
	closeBlock := func() {
		result = append(result, codeBlockLines...)
		result = append(result, "")
		result = append(result, darkGray+strings.Repeat("━", ruleWidth)+reset)
		result = append(result, "")
		codeBlockLines = nil
		inCodeBlock = false
	}

	for _, line := range lines {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				result = append(result, "")

				label := "[code]"
				leftLen := (ruleWidth - len(label)) / 2
				rightLen := ruleWidth - len(label) - leftLen
				if leftLen < 0 {
					leftLen, rightLen = 0, 0
				}
				border := darkGray + strings.Repeat("━", leftLen) + reset + label + darkGray + strings.Repeat("━", rightLen) + reset

				result = append(result, border, "")
			}
			codeBlockLines = append(codeBlockLines, stripCodeBlockPrefix(line))
			continue
		}

		if inCodeBlock {
			closeBlock()
		}
		result = append(result, line)
	}

	if inCodeBlock && len(codeBlockLines) > 0 {
		closeBlock()
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}

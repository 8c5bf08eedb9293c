package storage

import (
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

const previewRunes = 100

// MessageMatch is a single message hit across the loaded conversations.
type MessageMatch struct {
	ConversationID string
	Title          string
	MessageIndex   int
	Role           Role
	Preview        string
	Timestamp      time.Time
}

type conversationTitles []*Conversation

func (c conversationTitles) String(i int) string { return c[i].Title }
func (c conversationTitles) Len() int            { return len(c) }

// Filter returns the conversations whose titles fuzzy-match query, best match first.
// An empty query returns every conversation in display order.
func (s *Store) Filter(query string) []*Conversation {
	if strings.TrimSpace(query) == "" {
		return s.conversations
	}

	matches := fuzzy.FindFrom(query, conversationTitles(s.conversations))
	result := make([]*Conversation, 0, len(matches))
	for _, match := range matches {
		result = append(result, s.conversations[match.Index])
	}
	return result
}

// Search does a case-insensitive substring search over every loaded message.
// Conversations whose history has not been fetched are not searched.
func (s *Store) Search(query string) []MessageMatch {
	if query == "" {
		return nil
	}

	queryLower := strings.ToLower(query)
	var matches []MessageMatch

	for _, conv := range s.conversations {
		for i, msg := range conv.Messages {
			if !strings.Contains(strings.ToLower(msg.Content), queryLower) {
				continue
			}

			preview := msg.Content
			if runes := []rune(preview); len(runes) > previewRunes {
				preview = string(runes[:previewRunes]) + "..."
			}

			matches = append(matches, MessageMatch{
				ConversationID: conv.ID,
				Title:          conv.Title,
				MessageIndex:   i,
				Role:           msg.Role,
				Preview:        preview,
				Timestamp:      msg.Timestamp,
			})
		}
	}

	return matches
}

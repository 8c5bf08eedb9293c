package testutil

import (
	"time"

	"qachat/storage"
)

// TestConversation returns a sample stored conversation for testing
func TestConversation() []storage.Message {
	return []storage.Message{
		{
			Role:      storage.RoleUser,
			Content:   "导出本月注册用户",
			Timestamp: time.Now(),
		},
		{
			Role:      storage.RoleAI,
			Content:   "| phone |\n|---|\n| 138 |",
			Timestamp: time.Now(),
		},
		{
			Role:      storage.RoleUser,
			Content:   "再按地区分组",
			Timestamp: time.Now(),
		},
	}
}

// SingleUserMessage returns a single stored user message for simple tests
func SingleUserMessage(content string) []storage.Message {
	return []storage.Message{
		{
			Role:      storage.RoleUser,
			Content:   content,
			Timestamp: time.Now(),
		},
	}
}

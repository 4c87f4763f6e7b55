package models

import "time"

// Roles carried on stored messages. The model payload uses these verbatim;
// only the display layer folds system into assistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// DefaultTitle is the title every chat starts with. The first user message
// replaces it exactly once.
const DefaultTitle = "New Chat"

const titleMaxRunes = 30

type Message struct {
	Role    string `json:"role"` // user, assistant, or system
	Content string `json:"content"`
}

type ChatRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayRole maps a stored role to the role shown in the UI. Historical
// system messages render as assistant bubbles; the stored role is untouched.
func DisplayRole(role string) string {
	if role == RoleUser || role == RoleAssistant {
		return role
	}
	return RoleAssistant
}

// TitleFromContent derives a chat title from a user message: the first 30
// runes, with "..." appended when the message was longer.
func TitleFromContent(content string) string {
	runes := []rune(content)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return content
}

package api

import (
	"strings"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
)

// RenderedMessage is what the presentation layer receives per message: the
// display role (system folded into assistant) and pre-escaped HTML.
type RenderedMessage struct {
	Role string `json:"role"`
	HTML string `json:"html"`
}

// EscapeContent makes message content safe to inject into the page. The
// replacement order is fixed: & first so later entities are not
// double-escaped, then < and >, then newlines become line breaks.
func EscapeContent(content string) string {
	escaped := strings.ReplaceAll(content, "&", "&amp;")
	escaped = strings.ReplaceAll(escaped, "<", "&lt;")
	escaped = strings.ReplaceAll(escaped, ">", "&gt;")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

func renderMessages(messages []models.Message) []RenderedMessage {
	rendered := make([]RenderedMessage, 0, len(messages))
	for _, msg := range messages {
		rendered = append(rendered, RenderedMessage{
			Role: models.DisplayRole(msg.Role),
			HTML: EscapeContent(msg.Content),
		})
	}
	return rendered
}

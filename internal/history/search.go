package history

import (
	"strings"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
)

// Search scans chats for a case-insensitive substring match against the
// title or any message body. Results keep the store's insertion order, not
// recency order. A chat appears at most once however many of its messages
// match. An empty or whitespace-only query matches nothing.
func Search(chats []*models.ChatRecord, query string) []*models.ChatRecord {
	results := make([]*models.ChatRecord, 0)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return results
	}

	for _, chat := range chats {
		if strings.Contains(strings.ToLower(chat.Title), q) {
			results = append(results, chat)
			continue
		}
		for _, msg := range chat.Messages {
			if strings.Contains(strings.ToLower(msg.Content), q) {
				results = append(results, chat)
				break
			}
		}
	}
	return results
}

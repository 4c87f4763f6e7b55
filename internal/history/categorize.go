package history

import (
	"sort"
	"time"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
)

// Sidebar category names, in emission order.
const (
	CategoryToday     = "Today"
	CategoryYesterday = "Yesterday"
	CategoryThisWeek  = "This Week"
	CategoryLastWeek  = "Last Week"
	CategoryOlder     = "Older"
)

// Group is one recency band of the sidebar history.
type Group struct {
	Name  string               `json:"name"`
	Chats []*models.ChatRecord `json:"chats"`
}

// Categorize buckets chats into recency bands relative to now. Bands have
// inclusive lower bounds and are tested newest-first, so a chat lands in the
// first band whose start it reaches. The week starts on Monday. Every band
// is present in the result, empty or not, always in the same order; within a
// band chats are sorted by creation time descending, ties keeping their
// input order.
func Categorize(chats []*models.ChatRecord, now time.Time) []Group {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	weekStart := today.AddDate(0, 0, -mondayOffset(today))
	lastWeekStart := weekStart.AddDate(0, 0, -7)

	groups := []Group{
		{Name: CategoryToday},
		{Name: CategoryYesterday},
		{Name: CategoryThisWeek},
		{Name: CategoryLastWeek},
		{Name: CategoryOlder},
	}

	for _, chat := range chats {
		var idx int
		switch created := chat.CreatedAt; {
		case !created.Before(today):
			idx = 0
		case !created.Before(yesterday):
			idx = 1
		case !created.Before(weekStart):
			idx = 2
		case !created.Before(lastWeekStart):
			idx = 3
		default:
			idx = 4
		}
		groups[idx].Chats = append(groups[idx].Chats, chat)
	}

	for i := range groups {
		chats := groups[i].Chats
		sort.SliceStable(chats, func(a, b int) bool {
			return chats[a].CreatedAt.After(chats[b].CreatedAt)
		})
	}
	return groups
}

// mondayOffset is the number of days since the most recent Monday, 0..6.
func mondayOffset(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

package history

import (
	"testing"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
)

func searchFixture() []*models.ChatRecord {
	return []*models.ChatRecord{
		{ID: "1", Title: "Trip Plan", Messages: []models.Message{
			{Role: models.RoleUser, Content: "Where should we go?"},
			{Role: models.RoleAssistant, Content: "How about Paris in spring?"},
		}},
		{ID: "2", Title: "Groceries", Messages: []models.Message{
			{Role: models.RoleUser, Content: "milk, eggs, bread"},
		}},
		{ID: "3", Title: "New Chat"},
	}
}

func ids(chats []*models.ChatRecord) []string {
	out := make([]string, len(chats))
	for i, c := range chats {
		out[i] = c.ID
	}
	return out
}

func TestSearchMatching(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title lowercase", "trip", []string{"1"}},
		{"title uppercase", "TRIP", []string{"1"}},
		{"message substring", "par", []string{"1"}},
		{"message exact word", "eggs", []string{"2"}},
		{"query is trimmed", "  eggs  ", []string{"2"}},
		{"no match", "zebra", nil},
		{"empty query", "", nil},
		{"whitespace only query", "   \t", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Search(searchFixture(), tc.query)
			if got == nil {
				t.Fatal("Search must return a non-nil slice")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d results %v, want %d", len(got), ids(got), len(tc.want))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("result[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSearchMatchesChatAtMostOnce(t *testing.T) {
	chats := []*models.ChatRecord{
		{ID: "1", Title: "cats", Messages: []models.Message{
			{Role: models.RoleUser, Content: "cats are great"},
			{Role: models.RoleAssistant, Content: "cats indeed"},
		}},
	}
	got := Search(chats, "cats")
	if len(got) != 1 {
		t.Errorf("got %d results, want 1", len(got))
	}
}

func TestSearchPreservesInsertionOrder(t *testing.T) {
	chats := []*models.ChatRecord{
		{ID: "old", Title: "project notes"},
		{ID: "new", Title: "project ideas"},
	}
	got := Search(chats, "project")
	if len(got) != 2 || got[0].ID != "old" || got[1].ID != "new" {
		t.Errorf("results = %v, want insertion order [old new]", ids(got))
	}
}

package store

import (
	"errors"
	"testing"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
)

func TestNewSessionStartsWithOneEmptyChat(t *testing.T) {
	m := NewManager()
	sess := m.NewSession()

	if sess.Len() != 1 {
		t.Fatalf("expected 1 chat, got %d", sess.Len())
	}
	active := sess.Active()
	if active == nil {
		t.Fatal("expected an active chat")
	}
	if active.Title != models.DefaultTitle {
		t.Errorf("title = %q, want %q", active.Title, models.DefaultTitle)
	}
	if len(active.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(active.Messages))
	}
}

func TestCreateChatReusesEmptyChat(t *testing.T) {
	sess := NewManager().NewSession()
	first := sess.Active()

	reused := sess.CreateChat()
	if reused.ID != first.ID {
		t.Errorf("expected empty chat %s to be reused, got %s", first.ID, reused.ID)
	}
	if sess.Len() != 1 {
		t.Errorf("store size = %d, want 1", sess.Len())
	}
}

func TestCreateChatAllocatesWhenActiveHasMessages(t *testing.T) {
	sess := NewManager().NewSession()
	first := sess.Active()
	if err := sess.AppendMessage(first.ID, models.Message{Role: models.RoleUser, Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	second := sess.CreateChat()
	if second.ID == first.ID {
		t.Error("expected a new chat, got the existing one")
	}
	if sess.Len() != 2 {
		t.Errorf("store size = %d, want 2", sess.Len())
	}
	if got := sess.Active().ID; got != second.ID {
		t.Errorf("active chat = %s, want %s", got, second.ID)
	}
}

func TestChatIDsAreUnique(t *testing.T) {
	sess := NewManager().NewSession()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		chat := sess.Active()
		if seen[chat.ID] {
			t.Fatalf("duplicate chat id %s", chat.ID)
		}
		seen[chat.ID] = true
		if err := sess.AppendMessage(chat.ID, models.Message{Role: models.RoleUser, Content: "x"}); err != nil {
			t.Fatal(err)
		}
		sess.CreateChat()
	}
}

func TestSetActiveNotFound(t *testing.T) {
	sess := NewManager().NewSession()
	if err := sess.SetActive("nope"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("err = %v, want ErrChatNotFound", err)
	}
}

func TestAppendMessageNotFound(t *testing.T) {
	sess := NewManager().NewSession()
	err := sess.AppendMessage("nope", models.Message{Role: models.RoleUser, Content: "hi"})
	if !errors.Is(err, ErrChatNotFound) {
		t.Errorf("err = %v, want ErrChatNotFound", err)
	}
}

func TestSetActiveLoadsWorkingCopy(t *testing.T) {
	sess := NewManager().NewSession()
	first := sess.Active()
	sess.AppendMessage(first.ID, models.Message{Role: models.RoleUser, Content: "remember me"})

	sess.CreateChat()
	if got := len(sess.Working()); got != 0 {
		t.Fatalf("fresh chat working copy has %d messages", got)
	}

	if err := sess.SetActive(first.ID); err != nil {
		t.Fatal(err)
	}
	working := sess.Working()
	if len(working) != 1 || working[0].Content != "remember me" {
		t.Errorf("working copy = %v, want the stored message", working)
	}
}

func TestClearMessagesKeepsChat(t *testing.T) {
	sess := NewManager().NewSession()
	chat := sess.Active()
	sess.AppendMessage(chat.ID, models.Message{Role: models.RoleUser, Content: "hi"})

	if err := sess.ClearMessages(chat.ID); err != nil {
		t.Fatal(err)
	}
	if sess.Len() != 1 {
		t.Errorf("store size = %d, want 1", sess.Len())
	}
	if len(sess.Active().Messages) != 0 {
		t.Error("expected messages to be cleared")
	}
	if len(sess.Working()) != 0 {
		t.Error("expected working copy to be cleared")
	}
}

func TestResetLeavesOneFreshChat(t *testing.T) {
	sess := NewManager().NewSession()
	for i := 0; i < 3; i++ {
		chat := sess.Active()
		sess.AppendMessage(chat.ID, models.Message{Role: models.RoleUser, Content: "hello"})
		sess.CreateChat()
	}

	fresh := sess.Reset()
	if sess.Len() != 1 {
		t.Fatalf("store size after reset = %d, want 1", sess.Len())
	}
	if fresh.Title != models.DefaultTitle {
		t.Errorf("title = %q, want %q", fresh.Title, models.DefaultTitle)
	}
	if len(fresh.Messages) != 0 {
		t.Errorf("fresh chat has %d messages", len(fresh.Messages))
	}
	if sess.Active().ID != fresh.ID {
		t.Error("fresh chat should be active")
	}
}

func TestRefreshTitleSetsOnce(t *testing.T) {
	sess := NewManager().NewSession()
	chat := sess.Active()
	sess.AppendMessage(chat.ID, models.Message{Role: models.RoleAssistant, Content: "welcome"})
	sess.AppendMessage(chat.ID, models.Message{Role: models.RoleUser, Content: "short question"})

	if err := sess.RefreshTitle(chat.ID); err != nil {
		t.Fatal(err)
	}
	if chat.Title != "short question" {
		t.Errorf("title = %q, want %q", chat.Title, "short question")
	}

	sess.AppendMessage(chat.ID, models.Message{Role: models.RoleUser, Content: "a different message"})
	if err := sess.RefreshTitle(chat.ID); err != nil {
		t.Fatal(err)
	}
	if chat.Title != "short question" {
		t.Errorf("title changed on second refresh: %q", chat.Title)
	}
}

func TestManagerSessionLifecycle(t *testing.T) {
	m := NewManager()
	sess := m.NewSession()

	got, ok := m.Session(sess.ID)
	if !ok || got != sess {
		t.Fatal("expected to find the created session")
	}

	m.DestroySession(sess.ID)
	if _, ok := m.Session(sess.ID); ok {
		t.Error("expected session to be gone")
	}
}

func TestChatsPreserveInsertionOrder(t *testing.T) {
	sess := NewManager().NewSession()
	var ids []string
	for i := 0; i < 4; i++ {
		chat := sess.Active()
		ids = append(ids, chat.ID)
		sess.AppendMessage(chat.ID, models.Message{Role: models.RoleUser, Content: "m"})
		sess.CreateChat()
	}

	chats := sess.Chats()
	if len(chats) != 5 {
		t.Fatalf("got %d chats, want 5", len(chats))
	}
	for i, id := range ids {
		if chats[i].ID != id {
			t.Errorf("chats[%d] = %s, want %s", i, chats[i].ID, id)
		}
	}
}

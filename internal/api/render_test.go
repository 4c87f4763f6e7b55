package api

import (
	"testing"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
)

func TestEscapeContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markup and newline", "<b>hi</b> & bye\nline2", "&lt;b&gt;hi&lt;/b&gt; &amp; bye<br>line2"},
		{"plain text untouched", "just words", "just words"},
		{"ampersand not double escaped", "&lt;", "&amp;lt;"},
		{"several newlines", "a\nb\nc", "a<br>b<br>c"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EscapeContent(tc.in); got != tc.want {
				t.Errorf("EscapeContent(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRenderMessagesNormalizesSystemRole(t *testing.T) {
	rendered := renderMessages([]models.Message{
		{Role: models.RoleSystem, Content: "be nice"},
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
	})

	wantRoles := []string{models.RoleAssistant, models.RoleUser, models.RoleAssistant}
	if len(rendered) != len(wantRoles) {
		t.Fatalf("got %d rendered messages, want %d", len(rendered), len(wantRoles))
	}
	for i, want := range wantRoles {
		if rendered[i].Role != want {
			t.Errorf("rendered[%d].Role = %q, want %q", i, rendered[i].Role, want)
		}
	}
}

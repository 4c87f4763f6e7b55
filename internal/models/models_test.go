package models

import (
	"strings"
	"testing"
)

func TestTitleFromContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short stays whole", "Hello", "Hello"},
		{"exactly 30 runes untruncated", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"31 runes truncated", strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"37 char example", "Hello there, how are you doing today?", "Hello there, how are you doin..."},
		{"multibyte runes counted as characters", strings.Repeat("ü", 31), strings.Repeat("ü", 30) + "..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TitleFromContent(tc.in); got != tc.want {
				t.Errorf("TitleFromContent(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDisplayRole(t *testing.T) {
	tests := []struct{ in, want string }{
		{RoleUser, RoleUser},
		{RoleAssistant, RoleAssistant},
		{RoleSystem, RoleAssistant},
		{"tool", RoleAssistant},
	}
	for _, tc := range tests {
		if got := DisplayRole(tc.in); got != tc.want {
			t.Errorf("DisplayRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

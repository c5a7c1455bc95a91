package history

import (
	"regexp"
	"testing"
	"time"
)

func TestNewIDs(t *testing.T) {
	sessionRe := regexp.MustCompile(`^session_\d{13}_[0-9a-z]{9}$`)
	msgRe := regexp.MustCompile(`^msg_\d{13}_[0-9a-z]{9}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if !sessionRe.MatchString(id) {
			t.Fatalf("NewSessionID() = %q, bad format", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true

		if mid := NewMessageID(); !msgRe.MatchString(mid) {
			t.Fatalf("NewMessageID() = %q, bad format", mid)
		}
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"explain how photosynthesis works in plants", "explain how photosynthesis works in..."},
		{"hi", "hi"},
		{"one two three four five", "one two three four five"},
		{"  spaced   out\twords  ", "spaced out words"},
		{"", "New Chat"},
		{"   \n\t", "New Chat"},
	}

	for _, tt := range tests {
		if got := DeriveTitle(tt.in); got != tt.want {
			t.Errorf("DeriveTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"same moment", now, "Today"},
		{"hours ago", now.Add(-5 * time.Hour), "Today"},
		{"future", now.Add(time.Hour), "Today"},
		{"one day", now.Add(-25 * time.Hour), "Yesterday"},
		{"three days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"six days", now.Add(-6 * 24 * time.Hour), "6 days ago"},
		{"a week", now.Add(-7 * 24 * time.Hour), "2025-06-08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelative(tt.t, now); got != tt.want {
				t.Errorf("FormatRelative() = %q, want %q", got, tt.want)
			}
		})
	}
}

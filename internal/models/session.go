package models

import "time"

// DefaultSessionTitle is the title of a session before its first message
const DefaultSessionTitle = "New Chat"

// Session is one conversation thread
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}

// MessageIndex returns the position of the message with the given ID, or -1
func (s *Session) MessageIndex(id string) int {
	for i, m := range s.Messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Touch bumps UpdatedAt, never moving it before CreatedAt
func (s *Session) Touch(now time.Time) {
	if now.Before(s.CreatedAt) {
		now = s.CreatedAt
	}
	s.UpdatedAt = now
}

// CloneSessions deep-copies a session list
func CloneSessions(sessions []*Session) []*Session {
	out := make([]*Session, len(sessions))
	for i, s := range sessions {
		out[i] = s.Clone()
	}
	return out
}

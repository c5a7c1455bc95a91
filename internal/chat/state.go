package chat

import (
	"time"

	"github.com/diogo/geminichat/internal/models"
)

// RequestKind says which operation started a generation
type RequestKind string

const (
	KindSend       RequestKind = "send"
	KindEdit       RequestKind = "edit"
	KindRegenerate RequestKind = "regenerate"
)

// Request is the in-flight token. At most one exists at a time.
type Request struct {
	ID        uint64
	Kind      RequestKind
	SessionID string
	Prompt    string
	StartedAt time.Time
}

// State is a snapshot of the store. Sessions are most recent first.
type State struct {
	Sessions         []*models.Session
	CurrentSessionID string
	InFlight         *Request
}

// IsLoading reports whether a generation is in flight
func (s State) IsLoading() bool {
	return s.InFlight != nil
}

// CanGenerate reports whether an operation that generates may start
func (s State) CanGenerate() bool {
	return s.InFlight == nil
}

// Current returns the selected session, or nil
func (s State) Current() *models.Session {
	return s.find(s.CurrentSessionID)
}

func (s State) find(id string) *models.Session {
	if id == "" {
		return nil
	}
	for _, sess := range s.Sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

func (s State) indexOf(id string) int {
	for i, sess := range s.Sessions {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := State{
		Sessions:         models.CloneSessions(s.Sessions),
		CurrentSessionID: s.CurrentSessionID,
	}
	if s.InFlight != nil {
		req := *s.InFlight
		out.InFlight = &req
	}
	return out
}

// LastUserMessage returns the last user message of sess; only that message
// can be edited.
func LastUserMessage(sess *models.Session) (models.Message, bool) {
	return lastWithRole(sess, models.RoleUser)
}

// LastAssistantMessage returns the last assistant message of sess
func LastAssistantMessage(sess *models.Session) (models.Message, bool) {
	return lastWithRole(sess, models.RoleAssistant)
}

// CanRegenerate reports whether the message with id is the last assistant
// message of sess and is not an error reply.
func CanRegenerate(sess *models.Session, id string) bool {
	msg, ok := LastAssistantMessage(sess)
	return ok && msg.ID == id && !msg.IsErrorReply()
}

func lastWithRole(sess *models.Session, role models.Role) (models.Message, bool) {
	if sess == nil {
		return models.Message{}, false
	}
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if sess.Messages[i].Role == role {
			return sess.Messages[i], true
		}
	}
	return models.Message{}, false
}

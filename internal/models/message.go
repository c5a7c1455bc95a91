// Package models contains the data types shared by the chat store, storage and UI.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

const (
	// ErrorReplyMarker is the substring that identifies a synthetic error reply.
	ErrorReplyMarker = "Sorry, I encountered an error"

	// UnknownErrorReason is used when a generation failure carries no text.
	UnknownErrorReason = "Unknown error occurred"
)

// Message is one turn in a conversation
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsErrorReply reports whether the message is a synthetic error reply
func (m Message) IsErrorReply() bool {
	return m.Role == RoleAssistant && IsErrorReply(m.Content)
}

// IsErrorReply reports whether content was produced by FormatErrorReply.
// Error replies are ordinary assistant messages, so detection is by substring.
func IsErrorReply(content string) bool {
	return strings.Contains(content, ErrorReplyMarker)
}

// FormatErrorReply builds the assistant text shown in place of a failed generation
func FormatErrorReply(err error) string {
	reason := UnknownErrorReason
	if err != nil && err.Error() != "" {
		reason = err.Error()
	}
	return fmt.Sprintf("%s: %s. Please try again.", ErrorReplyMarker, reason)
}

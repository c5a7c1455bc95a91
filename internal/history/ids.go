package history

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/geminichat/internal/models"
)

const (
	titleWords   = 5
	suffixLength = 9
)

// NewSessionID returns an identifier of the form session_<unix-ms>_<random>
func NewSessionID() string {
	return newID("session")
}

// NewMessageID returns an identifier of the form msg_<unix-ms>_<random>
func NewMessageID() string {
	return newID("msg")
}

func newID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), randomSuffix())
}

// randomSuffix renders the random half of a v4 UUID in base36
func randomSuffix() string {
	u := uuid.New()
	s := strconv.FormatUint(binary.BigEndian.Uint64(u[8:]), 36)
	if len(s) < suffixLength {
		s = strings.Repeat("0", suffixLength-len(s)) + s
	}
	return s[len(s)-suffixLength:]
}

// DeriveTitle builds a session title from the first user message: the first
// five words joined by single spaces, with "..." when more words follow.
func DeriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return models.DefaultSessionTitle
	}
	if len(words) <= titleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWords], " ") + "..."
}

// FormatRelative renders t relative to now the way the session list shows it
func FormatRelative(t, now time.Time) string {
	days := int(now.Sub(t) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Local().Format("2006-01-02")
	}
}

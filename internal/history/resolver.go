package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diogo/geminichat/internal/models"
)

// SessionSource provides the current ordered session list (most recent first)
type SessionSource interface {
	Sessions() []*models.Session
}

// Resolver resolves user-friendly references to sessions
type Resolver struct {
	source SessionSource
}

// NewResolver creates a new reference resolver
func NewResolver(source SessionSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve converts a user-friendly reference to a session
//
// Supported references:
//   - "@last" - most recently created session
//   - "@first" - oldest session
//   - "1", "2", "3" - by index (1-based)
//   - "session_..." - direct ID
//   - "substring" - match on title (error if multiple matches)
func (r *Resolver) Resolve(ref string) (*models.Session, error) {
	ref = strings.TrimSpace(ref)

	if ref == "" {
		return nil, fmt.Errorf("empty reference")
	}

	sessions := r.source.Sessions()
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found")
	}

	switch strings.ToLower(ref) {
	case "@last":
		return sessions[0], nil
	case "@first":
		return sessions[len(sessions)-1], nil
	}

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(sessions) {
			return nil, fmt.Errorf("index %d out of range (1-%d)", index, len(sessions))
		}
		return sessions[index-1], nil
	}

	if strings.HasPrefix(ref, "session_") {
		for _, s := range sessions {
			if s.ID == ref {
				return s, nil
			}
		}
		return nil, fmt.Errorf("session not found: %s", ref)
	}

	refLower := strings.ToLower(ref)
	var matches []*models.Session
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.Title), refLower) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no session matching '%s'", ref)
	case 1:
		return matches[0], nil
	default:
		var titles []string
		for _, m := range matches {
			titles = append(titles, fmt.Sprintf("'%s'", m.Title))
		}
		return nil, fmt.Errorf("multiple sessions match '%s': %s. Use ID or be more specific",
			ref, strings.Join(titles, ", "))
	}
}

// ResolveID is Resolve returning only the session ID
func (r *Resolver) ResolveID(ref string) (string, error) {
	s, err := r.Resolve(ref)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

// ListAliases returns information about supported references
func ListAliases() string {
	return `Supported references:
  @last          Most recent session
  @first         Oldest session
  1, 2, 3        By index (1-based, from most recent)
  "text"         Search by title substring
  session_...    Direct session ID`
}

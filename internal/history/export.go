package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/diogo/geminichat/internal/models"
)

// ExportFormat represents the format for exporting sessions
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
	ExportFormatYAML     ExportFormat = "yaml"
)

// ParseExportFormat accepts the format names and common aliases
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	case "yaml", "yml":
		return ExportFormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

type exportMessage struct {
	Role      string    `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Error     bool      `json:"error,omitempty" yaml:"error,omitempty"`
}

type exportSession struct {
	ID        string          `json:"id" yaml:"id"`
	Title     string          `json:"title" yaml:"title"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"updated_at"`
	Messages  []exportMessage `json:"messages" yaml:"messages"`
}

// Export renders a session in the given format
func Export(s *models.Session, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatMarkdown:
		return []byte(ExportToMarkdown(s)), nil
	case ExportFormatJSON:
		return json.MarshalIndent(toExport(s), "", "  ")
	case ExportFormatYAML:
		return yaml.Marshal(toExport(s))
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func toExport(s *models.Session) exportSession {
	out := exportSession{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]exportMessage, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		out.Messages[i] = exportMessage{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			Error:     msg.IsErrorReply(),
		}
	}
	return out
}

// ExportToMarkdown renders a session as a Markdown document
func ExportToMarkdown(s *models.Session) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(s.Title)
	sb.WriteString("\n\n")

	sb.WriteString("**Created:** ")
	sb.WriteString(s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString("**Updated:** ")
	sb.WriteString(s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(s.Messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range s.Messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Local().Format("15:04"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if msg.IsErrorReply() {
			sb.WriteString("> ")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(s.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// SearchResult represents a search match in a session
type SearchResult struct {
	Session      *models.Session
	MatchSnippet string // Snippet where the term was found
	MatchField   string // "title" or "content"
	MatchIndex   int    // Message index if MatchField is "content", -1 for title
}

// Search looks for query in session titles and, optionally, message content
func Search(sessions []*models.Session, query string, searchContent bool) []*SearchResult {
	queryLower := strings.ToLower(query)
	var results []*SearchResult

	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.Title), queryLower) {
			results = append(results, &SearchResult{
				Session:      s,
				MatchSnippet: s.Title,
				MatchField:   "title",
				MatchIndex:   -1,
			})
			continue
		}

		if !searchContent {
			continue
		}
		for i, msg := range s.Messages {
			if strings.Contains(strings.ToLower(msg.Content), queryLower) {
				results = append(results, &SearchResult{
					Session:      s,
					MatchSnippet: extractSnippet(msg.Content, query, 100),
					MatchField:   "content",
					MatchIndex:   i,
				})
				break // one match per session
			}
		}
	}

	return results
}

// extractSnippet extracts up to maxLen runes around the first case-insensitive
// occurrence of query
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	idx := indexFold(runes, []rune(query))
	if idx == -1 {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return content
	}

	queryLen := utf8.RuneCountInString(query)
	half := maxLen / 2
	start := idx - half
	end := idx + queryLen + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}

// indexFold returns the rune index of the first case-insensitive match of
// needle in haystack, or -1
func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if strings.EqualFold(string(haystack[i:i+len(needle)]), string(needle)) {
			return i
		}
	}
	return -1
}

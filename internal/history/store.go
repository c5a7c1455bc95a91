// Package history persists chat sessions to a local key-value store.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
)

// SessionsKey is the key the full session list is stored under
const SessionsKey = "gemini-chat-sessions"

// timestampLayout keeps millisecond precision, which is what round-trips
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// messageRecord and sessionRecord are the persisted shapes
type messageRecord struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
}

type sessionRecord struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []messageRecord `json:"messages"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// Store loads and saves the ordered session list
type Store struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the logger used for debug output
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// WithKey overrides the key sessions are stored under
func WithKey(key string) StoreOption {
	return func(s *Store) {
		s.key = key
	}
}

// NewStore creates a store on top of kv
func NewStore(kv KV, opts ...StoreOption) *Store {
	s := &Store{
		kv:  kv,
		key: SessionsKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Load reads the persisted sessions. A missing value yields an empty list and
// nil error. Unreadable or corrupt data also yields an empty list, together
// with the error so the caller can report it; there is no partial recovery.
func (s *Store) Load() ([]*models.Session, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return []*models.Session{}, fmt.Errorf("failed to load sessions: %w", err)
	}
	if !ok {
		return []*models.Session{}, nil
	}

	sessions, err := decodeSessions(data)
	if err != nil {
		return []*models.Session{}, err
	}

	s.logger.Debug("loaded sessions", zap.Int("count", len(sessions)))
	return sessions, nil
}

// Save writes the full session list
func (s *Store) Save(sessions []*models.Session) error {
	data, err := encodeSessions(sessions)
	if err != nil {
		return err
	}

	if err := s.kv.Set(s.key, data); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}

	s.logger.Debug("saved sessions", zap.Int("count", len(sessions)), zap.Int("bytes", len(data)))
	return nil
}

// Clear removes all persisted sessions
func (s *Store) Clear() error {
	if err := s.kv.Delete(s.key); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}

// Close releases the underlying KV
func (s *Store) Close() error {
	return s.kv.Close()
}

// Stats summarizes persisted data without decoding it into sessions
type Stats struct {
	Sessions int
	Messages int
	Bytes    int
}

// Stats reports counts straight from the stored JSON
func (s *Store) Stats() (Stats, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load sessions: %w", err)
	}
	if !ok {
		return Stats{}, nil
	}
	if !gjson.ValidBytes(data) {
		return Stats{}, apierrors.ErrCorruptState
	}

	stats := Stats{
		Sessions: int(gjson.GetBytes(data, "#").Int()),
		Bytes:    len(data),
	}
	gjson.GetBytes(data, "#.messages.#").ForEach(func(_, n gjson.Result) bool {
		stats.Messages += int(n.Int())
		return true
	})
	return stats, nil
}

func encodeSessions(sessions []*models.Session) ([]byte, error) {
	records := make([]sessionRecord, 0, len(sessions))
	for _, sess := range sessions {
		rec := sessionRecord{
			ID:        sess.ID,
			Title:     sess.Title,
			Messages:  make([]messageRecord, 0, len(sess.Messages)),
			CreatedAt: formatTime(sess.CreatedAt),
			UpdatedAt: formatTime(sess.UpdatedAt),
		}
		for _, msg := range sess.Messages {
			rec.Messages = append(rec.Messages, messageRecord{
				ID:        msg.ID,
				Content:   msg.Content,
				Role:      string(msg.Role),
				Timestamp: formatTime(msg.Timestamp),
			})
		}
		records = append(records, rec)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sessions: %w", err)
	}
	return data, nil
}

func decodeSessions(data []byte) ([]*models.Session, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		return nil, apierrors.ErrCorruptState
	}

	var records []sessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrCorruptState, err)
	}

	sessions := make([]*models.Session, 0, len(records))
	for _, rec := range records {
		sess := &models.Session{
			ID:       rec.ID,
			Title:    rec.Title,
			Messages: make([]models.Message, 0, len(rec.Messages)),
		}
		var err error
		if sess.CreatedAt, err = parseTime(rec.CreatedAt); err != nil {
			return nil, err
		}
		if sess.UpdatedAt, err = parseTime(rec.UpdatedAt); err != nil {
			return nil, err
		}
		for _, m := range rec.Messages {
			role := models.Role(m.Role)
			if !role.Valid() {
				return nil, fmt.Errorf("%w: unknown role %q", apierrors.ErrCorruptState, m.Role)
			}
			ts, err := parseTime(m.Timestamp)
			if err != nil {
				return nil, err
			}
			sess.Messages = append(sess.Messages, models.Message{
				ID:        m.ID,
				Content:   m.Content,
				Role:      role,
				Timestamp: ts,
			})
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", apierrors.ErrCorruptState, s)
	}
	return t, nil
}

// OpenKV opens the configured storage backend inside dir
func OpenKV(backend, dir string) (KV, error) {
	switch backend {
	case "", config.StorageFile:
		return NewFileKV(filepath.Join(dir, "history"))
	case config.StorageSQLite:
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		return NewSQLiteKV(filepath.Join(dir, "sessions.db"))
	default:
		return nil, apierrors.NewConfigError("storage", fmt.Sprintf("unknown backend %q", backend))
	}
}

// DefaultStore opens the store configured in cfg under the config directory
func DefaultStore(cfg config.Config, logger *zap.Logger) (*Store, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	kv, err := OpenKV(cfg.Storage, dir)
	if err != nil {
		return nil, err
	}
	return NewStore(kv, WithLogger(logger)), nil
}

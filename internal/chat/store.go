// Package chat holds the session list and orchestrates generation and
// persistence for every presentation surface.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/history"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
)

// Storage persists the ordered session list. *history.Store implements it.
type Storage interface {
	Load() ([]*models.Session, error)
	Save(sessions []*models.Session) error
}

// Listener receives a snapshot after every state change
type Listener func(State)

// Store owns the sessions, the current selection and the in-flight token.
// All methods are safe for concurrent use; the lock is never held while
// the generator runs.
type Store struct {
	mu    sync.Mutex
	state State

	storage   Storage
	generator api.Generator
	logger    *zap.Logger

	now          func() time.Time
	newSessionID func() string
	newMessageID func() string

	nextRequest uint64

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger that receives storage failures
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDs replaces the session and message ID generators
func WithIDs(sessionID, messageID func() string) Option {
	return func(s *Store) {
		s.newSessionID = sessionID
		s.newMessageID = messageID
	}
}

// New loads the persisted sessions and selects the most recent one.
// A failed load is logged and leaves the store empty.
func New(storage Storage, generator api.Generator, opts ...Option) *Store {
	s := &Store{
		storage:      storage,
		generator:    generator,
		now:          time.Now,
		newSessionID: history.NewSessionID,
		newMessageID: history.NewMessageID,
		listeners:    make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)

	sessions, err := storage.Load()
	if err != nil {
		s.logger.Warn("failed to load sessions, starting empty", zap.Error(err))
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}
	s.state.Sessions = sessions
	if len(sessions) > 0 {
		s.state.CurrentSessionID = sessions[0].ID
	}
	return s
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

// State returns a deep copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Sessions returns a deep copy of the session list, most recent first
func (s *Store) Sessions() []*models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneSessions(s.state.Sessions)
}

// CurrentSession returns a copy of the selected session, or nil
func (s *Store) CurrentSession() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Current().Clone()
}

// IsLoading reports whether a generation is in flight
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsLoading()
}

// CreateSession prepends an empty session, persists and selects it
func (s *Store) CreateSession() string {
	s.mu.Lock()
	sess := s.createLocked()
	s.persistLocked()
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	return sess.ID
}

func (s *Store) createLocked() *models.Session {
	now := s.now()
	sess := &models.Session{
		ID:        s.newSessionID(),
		Title:     models.DefaultSessionTitle,
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.state.Sessions = append([]*models.Session{sess}, s.state.Sessions...)
	s.state.CurrentSessionID = sess.ID
	return sess
}

// SelectSession makes id current. Unknown ids are ignored. Selection is
// not persisted.
func (s *Store) SelectSession(id string) bool {
	s.mu.Lock()
	if s.state.find(id) == nil {
		s.mu.Unlock()
		return false
	}
	s.state.CurrentSessionID = id
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// DeleteSession removes id and persists. When it was current, the most
// recent remaining session becomes current.
func (s *Store) DeleteSession(id string) bool {
	s.mu.Lock()
	idx := s.state.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	sessions := make([]*models.Session, 0, len(s.state.Sessions)-1)
	sessions = append(sessions, s.state.Sessions[:idx]...)
	sessions = append(sessions, s.state.Sessions[idx+1:]...)
	s.state.Sessions = sessions
	s.persistLocked()

	if s.state.CurrentSessionID == id {
		s.state.CurrentSessionID = ""
		if len(sessions) > 0 {
			s.state.CurrentSessionID = sessions[0].ID
		}
	}
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// RenameSession sets a custom title. Blank titles and unknown ids are ignored.
func (s *Store) RenameSession(id, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	s.mu.Lock()
	sess := s.state.find(id)
	if sess == nil {
		s.mu.Unlock()
		return false
	}
	sess.Title = title
	sess.Touch(s.now())
	s.persistLocked()
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// SendMessage appends a user message to the current session, creating one
// when none is selected, and waits for the reply. Blank text and calls made
// while loading are ignored. It reports whether a generation ran.
func (s *Store) SendMessage(ctx context.Context, text string) bool {
	content := strings.TrimSpace(text)
	if content == "" {
		return false
	}

	s.mu.Lock()
	if !s.state.CanGenerate() {
		s.mu.Unlock()
		return false
	}

	sess := s.state.Current()
	if sess == nil {
		sess = s.createLocked()
	}

	now := s.now()
	sess.Messages = append(sess.Messages, models.Message{
		ID:        s.newMessageID(),
		Content:   content,
		Role:      models.RoleUser,
		Timestamp: now,
	})
	if len(sess.Messages) == 1 {
		sess.Title = history.DeriveTitle(text)
	}
	sess.Touch(now)

	req := s.beginLocked(KindSend, sess.ID, text)
	s.persistLocked()
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	s.complete(ctx, req)
	return true
}

// EditMessage overwrites a message in the current session, drops everything
// after it and generates a new reply for content.
func (s *Store) EditMessage(ctx context.Context, id, content string) bool {
	s.mu.Lock()
	sess := s.state.Current()
	if sess == nil || !s.state.CanGenerate() {
		s.mu.Unlock()
		return false
	}
	idx := sess.MessageIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	now := s.now()
	sess.Messages[idx].Content = content
	sess.Messages[idx].Timestamp = now
	sess.Messages = sess.Messages[:idx+1]
	sess.Touch(now)

	req := s.beginLocked(KindEdit, sess.ID, content)
	s.persistLocked()
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	s.complete(ctx, req)
	return true
}

// RegenerateResponse drops the message with id and everything after it,
// then generates again from the closest earlier user message. Nothing
// changes when there is no such user message.
func (s *Store) RegenerateResponse(ctx context.Context, id string) bool {
	s.mu.Lock()
	sess := s.state.Current()
	if sess == nil || !s.state.CanGenerate() {
		s.mu.Unlock()
		return false
	}
	idx := sess.MessageIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	prompt := ""
	for i := idx - 1; i >= 0; i-- {
		if sess.Messages[i].IsUser() {
			prompt = sess.Messages[i].Content
			break
		}
	}
	if prompt == "" {
		s.mu.Unlock()
		return false
	}

	sess.Messages = sess.Messages[:idx]
	sess.Touch(s.now())

	req := s.beginLocked(KindRegenerate, sess.ID, prompt)
	s.persistLocked()
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	s.complete(ctx, req)
	return true
}

func (s *Store) beginLocked(kind RequestKind, sessionID, prompt string) *Request {
	s.nextRequest++
	req := &Request{
		ID:        s.nextRequest,
		Kind:      kind,
		SessionID: sessionID,
		Prompt:    prompt,
		StartedAt: s.now(),
	}
	s.state.InFlight = req
	return req
}

// complete runs the generator without the lock, then appends the reply to
// the session that started the request and releases the token.
func (s *Store) complete(ctx context.Context, req *Request) {
	reply, err := s.generator.Generate(ctx, req.Prompt)
	if err != nil {
		s.logger.Warn("generation failed",
			zap.String("session_id", req.SessionID),
			zap.String("kind", string(req.Kind)),
			zap.Error(err))
		reply = models.FormatErrorReply(err)
	}

	s.mu.Lock()
	if s.state.InFlight == req {
		s.state.InFlight = nil
	}

	if sess := s.state.find(req.SessionID); sess != nil {
		now := s.now()
		sess.Messages = append(sess.Messages, models.Message{
			ID:        s.newMessageID(),
			Content:   reply,
			Role:      models.RoleAssistant,
			Timestamp: now,
		})
		sess.Touch(now)
		s.persistLocked()
	} else {
		s.logger.Info("session deleted during generation, dropping reply",
			zap.String("session_id", req.SessionID))
	}

	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
}

// persistLocked saves the session list. Failures are logged and the
// in-memory state is kept.
func (s *Store) persistLocked() {
	if err := s.storage.Save(s.state.Sessions); err != nil {
		s.logger.Error("failed to save sessions",
			zap.Int("sessions", len(s.state.Sessions)),
			zap.Error(err))
	}
}

func (s *Store) notify(snap State) {
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

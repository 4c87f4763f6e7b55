package store

import (
	"errors"
	"sync"
	"time"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
	"github.com/google/uuid"
)

// ErrChatNotFound means an operation referenced a chat id that is not in the
// store. This is a logic error on the caller's side, not a user-facing
// condition.
var ErrChatNotFound = errors.New("chat not found")

// Manager owns every live session. Sessions exist only for the lifetime of
// the process; nothing is persisted.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// NewSession creates a session holding exactly one empty chat, so the UI
// always has an active conversation to render.
func (m *Manager) NewSession() *Session {
	s := newSession(m.now)
	s.CreateChat()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) DestroySession(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Session is one user's conversation state: the chat store, the active chat
// id, and a working copy of the active chat's messages used to render the
// current turn. The working copy and the stored messages are identical after
// every completed turn; they diverge only while a turn is being assembled.
type Session struct {
	ID string

	turn sync.Mutex // held for the duration of one turn

	mu      sync.Mutex
	chats   map[string]*models.ChatRecord
	order   []string // insertion order, the store's natural iteration order
	active  string
	working []models.Message

	now func() time.Time
}

func newSession(now func() time.Time) *Session {
	return &Session{
		ID:    uuid.NewString(),
		chats: make(map[string]*models.ChatRecord),
		now:   now,
	}
}

// BeginTurn gates turn execution. The HTTP server handles requests
// concurrently, but only one turn may be in flight per session; callers that
// fail to acquire the gate report busy instead of queueing.
func (s *Session) BeginTurn() bool { return s.turn.TryLock() }

func (s *Session) EndTurn() { s.turn.Unlock() }

// CreateChat returns an existing empty chat if one is present (first match
// in insertion order) rather than allocating another; at most one genuinely
// empty chat exists at a time. Either way the chat becomes active and the
// working copy is reset.
func (s *Session) CreateChat() *models.ChatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createChatLocked()
}

func (s *Session) createChatLocked() *models.ChatRecord {
	for _, id := range s.order {
		if chat := s.chats[id]; len(chat.Messages) == 0 {
			s.active = id
			s.working = nil
			return chat
		}
	}

	chat := &models.ChatRecord{
		ID:        uuid.NewString(),
		Title:     models.DefaultTitle,
		CreatedAt: s.now(),
	}
	s.chats[chat.ID] = chat
	s.order = append(s.order, chat.ID)
	s.active = chat.ID
	s.working = nil
	return chat
}

// ClearAll empties the store. Most callers want Reset instead, which also
// recreates the one empty chat the session invariant requires.
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAllLocked()
}

func (s *Session) clearAllLocked() {
	s.chats = make(map[string]*models.ChatRecord)
	s.order = nil
	s.active = ""
	s.working = nil
}

// Reset is the full history reset: everything is dropped and one fresh empty
// chat is created so the session is never left with zero chats.
func (s *Session) Reset() *models.ChatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAllLocked()
	return s.createChatLocked()
}

func (s *Session) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok {
		return ErrChatNotFound
	}
	s.active = id
	s.working = append([]models.Message(nil), chat.Messages...)
	return nil
}

// Active returns the active chat record, or nil when the store is empty.
func (s *Session) Active() *models.ChatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats[s.active]
}

func (s *Session) AppendMessage(id string, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok {
		return ErrChatNotFound
	}
	chat.Messages = append(chat.Messages, msg)
	if id == s.active {
		s.working = append(s.working, msg)
	}
	return nil
}

// ClearMessages empties one chat's message sequence in place without
// deleting the chat.
func (s *Session) ClearMessages(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok {
		return ErrChatNotFound
	}
	chat.Messages = nil
	if id == s.active {
		s.working = nil
	}
	return nil
}

// RefreshTitle derives the chat title from its first user message, but only
// while the title is still the default. Once set, a title never changes.
func (s *Session) RefreshTitle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok {
		return ErrChatNotFound
	}
	if chat.Title != models.DefaultTitle {
		return nil
	}
	for _, msg := range chat.Messages {
		if msg.Role == models.RoleUser {
			chat.Title = models.TitleFromContent(msg.Content)
			break
		}
	}
	return nil
}

// Chats returns every chat in insertion order.
func (s *Session) Chats() []*models.ChatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ChatRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.chats[id])
	}
	return out
}

// Working returns a copy of the working message list for the current turn.
func (s *Session) Working() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.working...)
}

// Len reports the number of chats in the store.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chats)
}

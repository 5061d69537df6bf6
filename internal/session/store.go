package session

import (
	"sync"
	"time"

	"pdf-study-buddy/internal/core/chat"
	"pdf-study-buddy/internal/core/quiz"
	"pdf-study-buddy/internal/core/retriever"
	"pdf-study-buddy/internal/core/summary"

	"github.com/google/uuid"
)

// Document is the extracted text of one processed PDF plus its structured
// summary. Immutable once stored on a session.
type Document struct {
	Filename string           `json:"filename"`
	Path     string           `json:"path"`
	Pages    int              `json:"pages"`
	Text     string           `json:"-"`
	Summary  *summary.Summary `json:"summary,omitempty"`
}

// Session is the unit of per-user state: one document, its retrieval index,
// one quiz lifecycle, and the chat history. The state machine assumes
// exclusive access, so every handler mutates a session under its mutex.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	Document *Document
	Index    *retriever.Index
	Quiz     *quiz.Session
	Chat     []chat.Message
}

// Lock serializes access to the session's mutable state.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store keeps live sessions keyed by ID. Sessions share nothing with each
// other; the store only guards its own map.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a fresh session with an empty quiz and returns it.
func (st *Store) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Quiz:      &quiz.Session{},
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks a session up by ID.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete drops a session; its state is gone with it.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Package storage provides in-memory conversation history.
//
// Information Hiding:
// - Map storage structure hidden from users
// - Per-session locking hidden behind the store API
// - Window trimming policy encapsulated in the store

package storage

import (
	"sync"

	"github.com/google/uuid"

	"github.com/liuqitech/codeagent/llm"
)

// DefaultMaxMessages is the default per-session history window.
const DefaultMaxMessages = 20

// session holds one conversation window behind its own lock, so appends to
// different sessions never contend with each other.
type session struct {
	mu       sync.RWMutex
	messages []llm.ChatMessage
}

// ConversationStore keeps a bounded sliding window of chat messages per
// session. When a session's window is full the oldest messages are dropped,
// so long-running sessions keep recent context without unbounded growth.
// Data is lost when the process terminates.
//
// The store mutex guards only the session map; message access goes through
// each session's own lock.
type ConversationStore struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	maxMessages int
}

// NewConversationStore creates a store with the given per-session window.
// A non-positive maxMessages falls back to DefaultMaxMessages.
func NewConversationStore(maxMessages int) *ConversationStore {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &ConversationStore{
		sessions:    make(map[string]*session),
		maxMessages: maxMessages,
	}
}

// MaxMessages returns the per-session window size.
func (s *ConversationStore) MaxMessages() int {
	return s.maxMessages
}

// lookup returns the session for an id, or nil if it does not exist.
func (s *ConversationStore) lookup(sessionID string) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[sessionID]
}

// lookupOrCreate returns the session for an id, creating it if needed.
func (s *ConversationStore) lookupOrCreate(sessionID string) *session {
	if sess := s.lookup(sessionID); sess != nil {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[sessionID]
	if sess == nil {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	return sess
}

// Append adds messages to a session's history, trimming the oldest entries
// when the window overflows. Appending to an unknown session creates it.
// Appends on the same session are atomic; appends on different sessions
// proceed independently.
func (s *ConversationStore) Append(sessionID string, messages ...llm.ChatMessage) {
	if len(messages) == 0 {
		return
	}

	sess := s.lookupOrCreate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	history := append(sess.messages, messages...)
	if overflow := len(history) - s.maxMessages; overflow > 0 {
		history = history[overflow:]
	}
	sess.messages = history
}

// History returns a copy of a session's messages, oldest first.
// Returns an empty slice for unknown sessions.
func (s *ConversationStore) History(sessionID string) []llm.ChatMessage {
	sess := s.lookup(sessionID)
	if sess == nil {
		return []llm.ChatMessage{}
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	// Return a copy to avoid external mutations
	copied := make([]llm.ChatMessage, len(sess.messages))
	copy(copied, sess.messages)
	return copied
}

// Len returns the number of stored messages for a session.
func (s *ConversationStore) Len(sessionID string) int {
	sess := s.lookup(sessionID)
	if sess == nil {
		return 0
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	return len(sess.messages)
}

// Clear discards a session's history.
func (s *ConversationStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}

// Sessions lists all known session IDs.
func (s *ConversationStore) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// NewSessionID mints a short session identifier. Eight hex characters of a
// UUID are plenty for ids scoped to a single process.
func NewSessionID() string {
	return uuid.NewString()[:8]
}

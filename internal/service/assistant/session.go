package assistant

import (
	"sync"

	"github.com/pramodporuwa/shopsense/pkg/clients/anthropic"
)

// Keep the last few exchanges per user; older turns add cost without adding
// much grounding.
const maxHistoryMessages = 10

// SessionManager holds per-user conversation history.
type SessionManager struct {
	sessions map[string][]anthropic.Message
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string][]anthropic.Message),
	}
}

// History returns a copy of the user's recorded conversation.
func (sm *SessionManager) History(userID string) []anthropic.Message {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	history := sm.sessions[userID]
	out := make([]anthropic.Message, len(history))
	copy(out, history)
	return out
}

// Remember appends a question/answer exchange, trimming old turns.
func (sm *SessionManager) Remember(userID, question, answer string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	history := append(sm.sessions[userID],
		anthropic.Message{Role: "user", Content: question},
		anthropic.Message{Role: "assistant", Content: answer},
	)
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	sm.sessions[userID] = history
}

// Clear removes a user's session.
func (sm *SessionManager) Clear(userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userID)
}

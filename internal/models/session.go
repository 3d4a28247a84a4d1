// internal/models/session.go
package models

import (
	"sync"
	"time"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ConversationTurn is one entry of the local chat history.
type ConversationTurn struct {
	Sender          Sender    `json:"sender"`
	Text            string    `json:"text"`
	AttachedRecipes []Recipe  `json:"attachedRecipes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ConversationSession holds the append-only turn history of one chat surface
// and the sending flag that keeps submissions single-flight. It lives only in
// memory.
type ConversationSession struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	turns    []ConversationTurn
	sending  bool
	threadID string
}

func NewConversationSession(id string) *ConversationSession {
	return &ConversationSession{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// SetThread binds the session to an assistant thread.
func (s *ConversationSession) SetThread(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadID = threadID
}

// Thread returns the bound thread id, empty until bootstrap completes.
func (s *ConversationSession) Thread() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

func (s *ConversationSession) AppendUserTurn(text string) {
	s.append(ConversationTurn{Sender: SenderUser, Text: text})
}

func (s *ConversationSession) AppendAssistantTurn(text string, recipes []Recipe) {
	s.append(ConversationTurn{Sender: SenderAssistant, Text: text, AttachedRecipes: recipes})
}

func (s *ConversationSession) append(turn ConversationTurn) {
	turn.CreatedAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// Turns returns a copy of the history in append order.
func (s *ConversationSession) Turns() []ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns appended so far.
func (s *ConversationSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func (s *ConversationSession) IsSending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// TryBeginSend sets the sending flag. It returns false when a submission is
// already in flight.
func (s *ConversationSession) TryBeginSend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sending {
		return false
	}
	s.sending = true
	return true
}

// EndSend clears the sending flag.
func (s *ConversationSession) EndSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false
}

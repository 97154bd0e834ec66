package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/store"
)

const historyCap = 40

// SessionRepository keeps per-session memory and chat history in
// process. Entries expire an hour after last write; the janitor sweeps
// every ten minutes.
type SessionRepository struct {
	memories  *cache.Cache
	histories *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		memories:  cache.New(1*time.Hour, 10*time.Minute),
		histories: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// GetMemory returns the session's memory, creating a fresh one on first
// contact so callers never see nil.
func (r *SessionRepository) GetMemory(sessionID, role string) *store.SessionMemory {
	if cached, found := r.memories.Get(sessionID); found {
		if memory, ok := cached.(*store.SessionMemory); ok {
			return memory
		}
	}
	memory := store.NewSessionMemory(sessionID, role)
	r.memories.Set(sessionID, memory, cache.DefaultExpiration)
	return memory
}

// SaveMemory refreshes the TTL after a turn mutates the memory in place.
func (r *SessionRepository) SaveMemory(memory *store.SessionMemory) {
	if memory == nil {
		return
	}
	r.memories.Set(memory.ID, memory, cache.DefaultExpiration)
}

func (r *SessionRepository) GetHistory(sessionID string) []convo.ChatMessage {
	if cached, found := r.histories.Get(sessionID); found {
		if history, ok := cached.([]convo.ChatMessage); ok {
			return history
		}
	}
	return nil
}

// AppendHistory adds messages and trims from the front past historyCap.
func (r *SessionRepository) AppendHistory(sessionID string, messages ...convo.ChatMessage) {
	history := append(r.GetHistory(sessionID), messages...)
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}
	r.histories.Set(sessionID, history, cache.DefaultExpiration)
}

// Delete drops everything known about a session.
func (r *SessionRepository) Delete(sessionID string) {
	r.memories.Delete(sessionID)
	r.histories.Delete(sessionID)
}

// Package store provides the in-memory conversation history used by the
// orchestration loop. Durable persistence stays with the caller; the loop
// only needs ordered append and defensive snapshots.
package store

import (
	"sync"

	ai "github.com/xpand-io/bedrockai"
)

// MessageStore holds an ordered conversation history.
// It is safe for concurrent use.
type MessageStore struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// NewMessageStore creates an empty store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// NewMessageStoreFrom creates a store seeded with a copy of the given
// messages, so later appends never mutate the caller's slice.
func NewMessageStoreFrom(messages []ai.Message) *MessageStore {
	ms := NewMessageStore()
	if len(messages) > 0 {
		ms.messages = make([]ai.Message, len(messages))
		copy(ms.messages, messages)
	}
	return ms
}

// Append adds messages to the history.
func (m *MessageStore) Append(msgs ...ai.Message) {
	if len(msgs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
}

// Messages returns a copy of the history.
func (m *MessageStore) Messages() []ai.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ai.Message, len(m.messages))
	copy(result, m.messages)
	return result
}

// Len returns the number of messages.
func (m *MessageStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Clone creates an independent copy of the store.
func (m *MessageStore) Clone() *MessageStore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return NewMessageStoreFrom(m.messages)
}

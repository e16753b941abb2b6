package state

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps snapshots in process. Loads return copies, so a caller's
// mutations only land through Save.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*SessionState, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	m.mu.RLock()
	raw, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}

	return decodeSnapshot(raw)
}

func (m *MemoryStore) Save(_ context.Context, st *SessionState) error {
	payload, err := encodeSnapshot(st)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions[strings.TrimSpace(st.SessionID)] = payload
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, strings.TrimSpace(sessionID))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

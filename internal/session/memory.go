package session

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps sessions in a mutex-guarded map for the lifetime of
// the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) Add(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID()]; ok {
		return ErrDuplicateID
	}
	m.sessions[s.ID()] = s
	return nil
}

func (m *MemoryStore) Find(_ context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *MemoryStore) FindSessionIDForUser(_ context.Context, account string) (string, error) {
	if account == "" {
		return "", nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, s := range m.sessions {
		if s.PrincipalName() == account {
			return id, nil
		}
	}
	return "", nil
}

func (m *MemoryStore) Invalidate(_ context.Context, id string) error {
	m.mu.RLock()
	s := m.sessions[id]
	m.mu.RUnlock()

	if s != nil {
		s.Invalidate()
	}
	return nil
}

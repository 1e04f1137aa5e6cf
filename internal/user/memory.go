package user

import (
	"context"
	"sync"
)

// MemoryRepository keeps accounts in a mutex-guarded map.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		users:  make(map[string]*User),
	}
}

func (m *MemoryRepository) FindByAccount(_ context.Context, account string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[account], nil
}

func (m *MemoryRepository) Save(_ context.Context, reg Registration) (*User, error) {
	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[reg.Account]; ok {
		return nil, ErrDuplicateAccount
	}

	u := &User{
		ID:           m.nextID,
		Account:      reg.Account,
		PasswordHash: hash,
		Email:        reg.Email,
	}
	m.nextID++
	m.users[reg.Account] = u

	return u, nil
}

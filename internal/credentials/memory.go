package credentials

import "sync"

// MemoryStore holds a token for the lifetime of the process. Sharing one
// MemoryStore between clients lets them reuse a single token.
type MemoryStore struct {
	mu    sync.RWMutex
	token *StoredToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadToken() (*StoredToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, nil
	}
	cp := *m.token
	return &cp, nil
}

func (m *MemoryStore) SaveToken(token StoredToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = &token
	return nil
}

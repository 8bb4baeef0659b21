package clientstorage

import (
	"context"
	"sync"

	"association-storefront/internal/domain"
)

// MemoryRepo keeps slots in process memory. Values do not survive a
// restart; it backs local development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	slots map[string]map[string][]byte
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{slots: make(map[string]map[string][]byte)}
}

func (m *MemoryRepo) Get(_ context.Context, profileID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[profileID][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryRepo) Set(_ context.Context, profileID, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.slots[profileID]
	if !ok {
		profile = make(map[string][]byte)
		m.slots[profileID] = profile
	}
	profile[key] = stored
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, profileID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.slots[profileID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := profile[key]; !ok {
		return domain.ErrNotFound
	}
	delete(profile, key)
	if len(profile) == 0 {
		delete(m.slots, profileID)
	}
	return nil
}

func (m *MemoryRepo) Ping(context.Context) error {
	return nil
}

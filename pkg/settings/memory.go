package settings

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps settings in process, used when no redis is configured
type MemoryStore struct {
	mutex  sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: map[string][]byte{},
	}
}

func (m *MemoryStore) Load(ctx context.Context, session string) (Settings, error) {
	if err := validSession(session); err != nil {
		return Settings{}, err
	}

	m.mutex.RLock()
	value, ok := m.values[session]
	m.mutex.RUnlock()

	if !ok {
		return Default(), nil
	}

	return decode(session, value), nil
}

func (m *MemoryStore) Save(ctx context.Context, session string, settings Settings) error {
	if err := validSession(session); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	m.values[session] = value
	m.mutex.Unlock()

	return nil
}

func (m *MemoryStore) Reset(ctx context.Context, session string) error {
	if err := validSession(session); err != nil {
		return err
	}

	m.mutex.Lock()
	delete(m.values, session)
	m.mutex.Unlock()

	return nil
}

package storage

import (
	"context"
	"sync"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

// MemoryStore хранит темы в памяти процесса.
type MemoryStore struct {
	data  map[string]model.Theme
	mutex sync.RWMutex
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]model.Theme)}
}

func (s *MemoryStore) GetTheme(_ context.Context, sessionID string) (model.Theme, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if theme, ok := s.data[sessionID]; ok {
		return theme, nil
	}
	return model.DefaultTheme, nil
}

func (s *MemoryStore) SetTheme(_ context.Context, sessionID string, theme model.Theme) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[sessionID] = theme
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

// FileStore хранит темы в памяти и дописывает каждое изменение в JSON-lines файл.
// При старте файл проигрывается целиком, последняя запись сессии побеждает.
type FileStore struct {
	*MemoryStore
	file   string
	logger *zap.Logger
}

// NewFileStore создаёт хранилище и загружает данные из файла.
func NewFileStore(file string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &FileStore{
		MemoryStore: NewMemoryStore(),
		file:        file,
		logger:      logger,
	}
	if err := store.LoadFromFile(); err != nil {
		return nil, err
	}
	return store, nil
}

// SetTheme сохраняет тему в памяти и в файле.
func (s *FileStore) SetTheme(ctx context.Context, sessionID string, theme model.Theme) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := model.PreferenceEntry{SessionID: sessionID, Theme: theme}
	if err := s.appendToFile(entry); err != nil {
		return fmt.Errorf("append preference: %w", err)
	}
	s.data[sessionID] = theme
	return nil
}

// Ping проверяет, что файл хранилища доступен для записи.
func (s *FileStore) Ping(context.Context) error {
	f, err := os.OpenFile(s.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// LoadFromFile загружает данные из файла при старте сервера
func (s *FileStore) LoadFromFile() error {
	file, err := os.Open(s.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // файла ещё нет, это не ошибка
		}
		return err
	}
	defer file.Close()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	decoder := json.NewDecoder(file)
	for {
		var entry model.PreferenceEntry
		if err := decoder.Decode(&entry); err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Warn("preference replay stopped at corrupt entry",
					zap.String("file", s.file), zap.Int64("offset", decoder.InputOffset()), zap.Error(err))
			}
			break
		}
		theme, err := model.ParseTheme(string(entry.Theme))
		if err != nil {
			s.logger.Warn("skip preference entry", zap.String("session", entry.SessionID), zap.Error(err))
			continue
		}
		s.data[entry.SessionID] = theme
	}

	s.logger.Info("preferences loaded", zap.Int("count", len(s.data)), zap.String("file", s.file))
	return nil
}

func (s *FileStore) appendToFile(entry model.PreferenceEntry) error {
	file, err := os.OpenFile(s.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = file.Write(append(data, '\n'))
	return err
}

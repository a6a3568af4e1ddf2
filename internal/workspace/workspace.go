package workspace

import (
	"sync"
	"time"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

// Session результаты последних действий пользователя.
type Session struct {
	Resolved  []string
	Processed []model.ProcessedLink
	touched   time.Time
}

// Store потокобезопасное хранилище сессий в памяти.
// Коллекции заменяются целиком, частичных изменений нет.
type Store struct {
	data  map[string]*Session
	mutex sync.RWMutex
	ttl   time.Duration
}

// NewStore создаёт хранилище. Сессии, не использовавшиеся дольше ttl, удаляет Sweep.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Session),
		ttl:  ttl,
	}
}

// SetResolved заменяет декодированные ссылки сессии.
func (s *Store) SetResolved(id string, resolved []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess := s.session(id)
	sess.Resolved = append([]string(nil), resolved...)
}

// SetProcessed заменяет сгенерированные ссылки сессии.
func (s *Store) SetProcessed(id string, processed []model.ProcessedLink) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess := s.session(id)
	sess.Processed = append([]model.ProcessedLink(nil), processed...)
}

// Resolved возвращает копию декодированных ссылок. Чтение тоже продлевает жизнь сессии.
func (s *Store) Resolved(id string) []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return nil
	}
	sess.touched = time.Now()
	return append([]string(nil), sess.Resolved...)
}

// Processed возвращает копию сгенерированных ссылок.
func (s *Store) Processed(id string) []model.ProcessedLink {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return nil
	}
	sess.touched = time.Now()
	return append([]model.ProcessedLink(nil), sess.Processed...)
}

// Sweep удаляет простаивающие сессии и возвращает их количество.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := 0
	for id, sess := range s.data {
		if now.Sub(sess.touched) > s.ttl {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len количество активных сессий.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

func (s *Store) session(id string) *Session {
	sess, ok := s.data[id]
	if !ok {
		sess = &Session{}
		s.data[id] = sess
	}
	sess.touched = time.Now()
	return sess
}

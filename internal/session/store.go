package session

import (
	"errors"
	"sync"
)

// ErrNotFound возвращается для неизвестного идентификатора сессии
var ErrNotFound = errors.New("session not found")

// ErrAlreadyExists возвращается при попытке создать сессию с занятым id
var ErrAlreadyExists = errors.New("session already exists")

// Store — хранилище сессий. Сессии живут в памяти процесса, без
// персистентности; WithSession выполняет fn под блокировкой конкретной
// сессии, так что над одной сессией идет не больше одной операции.
type Store interface {
	Create(sess *Session) error
	Get(id string) (*Session, error)
	WithSession(id string, fn func(*Session) error) error
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

// MemoryStore — хранилище сессий в памяти процесса
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
	}
}

func (s *MemoryStore) Create(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[sess.ID]; exists {
		return ErrAlreadyExists
	}

	s.entries[sess.ID] = &entry{sess: sess}
	return nil
}

func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.sess, nil
}

// WithSession выполняет fn под мьютексом сессии. Блокировка держится на всю
// операцию, включая обращения к внешним сервисам внутри fn.
func (s *MemoryStore) WithSession(id string, fn func(*Session) error) error {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

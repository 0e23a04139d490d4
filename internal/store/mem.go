package store

import (
	"maps"
	"sync"
)

// InMemoryStorage keeps greetings in a map for the lifetime of the process.
// Presence checks and mutations run under the same lock.
type InMemoryStorage struct {
	mutex sync.RWMutex
	data  map[int]string
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		mutex: sync.RWMutex{},
		data:  make(map[int]string),
	}
}

// NewSeededStorage returns a storage pre-filled with Seed.
func NewSeededStorage() *InMemoryStorage {
	s := NewInMemoryStorage()
	s.data = Seed()
	return s
}

func (s *InMemoryStorage) List() map[int]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return maps.Clone(s.data)
}

func (s *InMemoryStorage) Get(id int) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	msg, ok := s.data[id]
	if ok {
		return msg, nil
	}
	return "", ErrNotFound
}

func (s *InMemoryStorage) Create(id int, message string) (Greeting, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.data[id]; ok {
		return Greeting{}, ErrAlreadyExists
	}
	s.data[id] = message
	return Greeting{ID: id, Message: message}, nil
}

func (s *InMemoryStorage) Update(id int, message string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	s.data[id] = message
	return nil
}

func (s *InMemoryStorage) Delete(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *InMemoryStorage) Replace(data map[int]string) {
	if data == nil {
		data = make(map[int]string)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = data
}

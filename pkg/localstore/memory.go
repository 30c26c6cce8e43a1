package localstore

import "sync"

// InMemoryStore keeps values for the lifetime of the process
type InMemoryStore struct {
	values map[string]string
	mutex  sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[string]string),
	}
}

func (s *InMemoryStore) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *InMemoryStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return nil
}

func (s *InMemoryStore) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.values, key)
	return nil
}

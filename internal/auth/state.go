package auth

import (
	"sync"
	"time"
)

// stateStore tracks issued OAuth state values until they are consumed or expire.
type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	now := time.Now()
	s.mu.Lock()
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
	s.mu.Unlock()
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	return ok && !time.Now().After(exp)
}

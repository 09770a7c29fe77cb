// Package memory provides goroutine-safe in-memory repositories. They back
// the worker when no database is configured and serve as test doubles.
package memory

import (
	"context"
	"sync"
)

// store is an insertion-ordered map guarded by a RWMutex. Entities are
// immutable, so values are shared without copying.
type store[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	order []K
}

func newStore[K comparable, V any]() *store[K, V] {
	return &store[K, V]{items: make(map[K]V)}
}

func (s *store[K, V]) get(k K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[k]
	return v, ok
}

// put inserts or replaces; a replaced key keeps its position.
func (s *store[K, V]) put(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(k, v)
}

func (s *store[K, V]) putLocked(k K, v V) {
	if _, exists := s.items[k]; !exists {
		s.order = append(s.order, k)
	}
	s.items[k] = v
}

func (s *store[K, V]) remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[k]; !ok {
		return false
	}
	delete(s.items, k)
	for i, key := range s.order {
		if key == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *store[K, V]) all() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allLocked()
}

func (s *store[K, V]) allLocked() []V {
	out := make([]V, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}

func (s *store[K, V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// alive reports a cancelled context before touching the store.
func alive(ctx context.Context) error {
	return ctx.Err()
}

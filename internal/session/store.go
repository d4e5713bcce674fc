// Package session provides the keyed store that owns per-user conversation
// drafts: TTL-based expiry so idle drafts are evicted, LRU eviction to bound
// memory, and expiry tracking so the owner can tell the user exactly once
// that an idle draft was discarded.
package session

import (
	"container/list"
	"sync"
	"time"
)

// Store is an LRU store with TTL keyed by user identity.
type Store[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	// keys whose entry timed out and whose owner has not been told yet
	expired map[string]struct{}
}

type entry[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// NewStore creates a session store. Entries idle longer than ttl expire;
// beyond maxSize the least recently used entry is dropped.
func NewStore[T any](maxSize int, ttl time.Duration) *Store[T] {
	return &Store[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		expired: make(map[string]struct{}),
	}
}

// Get retrieves the entry for key. An entry found past its deadline is
// removed and recorded as expired.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	elem, ok := s.items[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		s.removeElement(elem)
		s.expired[key] = struct{}{}
		return zero, false
	}
	s.lru.MoveToFront(elem)
	return e.data, true
}

// Set stores data under key and resets its idle deadline.
func (s *Store[T]) Set(key string, data T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry[T]{key: key, data: data, expiresAt: time.Now().Add(s.ttl)}
	if elem, ok := s.items[key]; ok {
		elem.Value = e
		s.lru.MoveToFront(elem)
		return
	}
	elem := s.lru.PushFront(e)
	s.items[key] = elem

	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			old := oldest.Value.(*entry[T])
			s.removeElement(oldest)
			s.expired[old.key] = struct{}{}
		}
	}
}

// Delete removes key without recording an expiry notice. Used on commit and
// on explicit cancellation.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		s.removeElement(elem)
	}
	delete(s.expired, key)
}

// Size returns the number of live entries.
func (s *Store[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// TakeExpired reports whether an entry for key timed out since the last
// interaction, and clears the notice.
func (s *Store[T]) TakeExpired(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expired[key]; ok {
		delete(s.expired, key)
		return true
	}
	return false
}

// CleanExpired removes all entries past their deadline, recording expiry
// notices, and returns the number removed.
func (s *Store[T]) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		e := elem.Value.(*entry[T])
		s.removeElement(elem)
		s.expired[e.key] = struct{}{}
	}
	return len(toRemove)
}

func (s *Store[T]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[T])
	delete(s.items, e.key)
	s.lru.Remove(elem)
}

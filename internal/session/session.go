// Package session tracks per-session pending confirmation state and
// serializes concurrent steps on the same session.
package session

import "sync"

// GoalRef is the minimal goal identity offered in a confirmation prompt.
type GoalRef struct {
	ID    string
	Title string
}

// PendingConfirmation records a goal-link question the assistant asked and
// has not yet received an answer to.
type PendingConfirmation struct {
	SessionKey string
	TaskID     string
	TaskTitle  string
	Goals      []GoalRef
}

// Store holds at most one pending confirmation per session key.
type Store interface {
	// Get returns the pending confirmation for the key, or false.
	Get(key string) (PendingConfirmation, bool)
	// Put records a pending confirmation, silently replacing any existing
	// one for the same key.
	Put(p PendingConfirmation)
	// Clear removes the pending confirmation for the key, if any.
	Clear(key string)
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	pending map[string]PendingConfirmation
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]PendingConfirmation)}
}

func (s *MemoryStore) Get(key string) (PendingConfirmation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[key]
	return p, ok
}

func (s *MemoryStore) Put(p PendingConfirmation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.SessionKey] = p
}

func (s *MemoryStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
}

// KeyedMutex provides one mutex per key so steps for the same session run
// one at a time while different sessions proceed independently. Entries are
// reference counted and evicted once the last holder unlocks, so the map
// stays bounded by the number of in-flight sessions.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

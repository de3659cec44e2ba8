package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("alice")
	assert.False(t, ok)

	s.Put(PendingConfirmation{
		SessionKey: "alice",
		TaskID:     "t1",
		TaskTitle:  "Buy groceries",
		Goals:      []GoalRef{{ID: "g1", Title: "Eat healthy"}},
	})

	p, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "t1", p.TaskID)
	assert.Equal(t, "Buy groceries", p.TaskTitle)

	_, ok = s.Get("bob")
	assert.False(t, ok, "state is per session")

	s.Clear("alice")
	_, ok = s.Get("alice")
	assert.False(t, ok)
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemoryStore()
	s.Put(PendingConfirmation{SessionKey: "alice", TaskID: "t1", TaskTitle: "first"})
	s.Put(PendingConfirmation{SessionKey: "alice", TaskID: "t2", TaskTitle: "second"})

	p, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "t2", p.TaskID, "newer confirmation replaces the older one")
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("shared")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestKeyedMutexEvictsIdleEntries(t *testing.T) {
	km := NewKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		key := string(rune('a' + i%5))
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock(key)
			unlock()
		}()
	}
	wg.Wait()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks, "released keys are evicted")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

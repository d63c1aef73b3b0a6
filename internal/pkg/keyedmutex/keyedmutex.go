// Package keyedmutex provides per-key exclusive locks with a bounded,
// context-aware wait. Locks on distinct keys never contend; waiters on the
// same key block on a channel rather than spinning.
package keyedmutex

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrWaitTimeout = errors.New("timed out waiting for key lock")

type entry struct {
	ch   chan struct{} // capacity 1; holding the token means holding the lock
	refs int
}

type KeyedMutex struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	wait    time.Duration
}

func New(wait time.Duration) *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[uuid.UUID]*entry),
		wait:    wait,
	}
}

// Lock acquires the lock for key, waiting at most the configured bound.
// The returned release function must be called exactly once.
func (m *KeyedMutex) Lock(ctx context.Context, key uuid.UUID) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		return func() { m.unlock(key, e) }, nil
	case <-ctx.Done():
		m.drop(key, e)
		return nil, ctx.Err()
	case <-timer.C:
		m.drop(key, e)
		return nil, ErrWaitTimeout
	}
}

func (m *KeyedMutex) unlock(key uuid.UUID, e *entry) {
	<-e.ch
	m.drop(key, e)
}

// drop releases one reference and evicts the entry once nobody holds or
// waits on it, keeping the map bounded by the number of in-flight keys.
func (m *KeyedMutex) drop(key uuid.UUID, e *entry) {
	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()
}

// Len reports the number of keys with live holders or waiters.
func (m *KeyedMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

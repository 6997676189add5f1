package verification

import (
	"context"
	"sync"
	"time"

	"centime/internal/services/transaction"
)

type memoryEntry struct {
	pv       *transaction.PendingVerification
	attempts int
	deadline time.Time
}

// MemoryStore is an in-process pending store for tests and single-node
// setups. All operations take one lock, which makes Consume trivially
// exactly-once.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Put(ctx context.Context, pv *transaction.PendingVerification, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pv.Token] = &memoryEntry{pv: pv, deadline: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*transaction.PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(token)
	if e == nil {
		return nil, nil
	}
	return e.pv, nil
}

func (s *MemoryStore) Consume(ctx context.Context, token string) (*transaction.PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(token)
	if e == nil {
		return nil, nil
	}
	delete(s.entries, token)
	return e.pv, nil
}

func (s *MemoryStore) Fail(ctx context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(token)
	if e == nil {
		return 0, nil
	}
	e.attempts++
	return e.attempts, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// live returns the entry for token, discarding it if expired. Callers must
// hold the lock.
func (s *MemoryStore) live(token string) *memoryEntry {
	e, ok := s.entries[token]
	if !ok {
		return nil
	}
	if time.Now().After(e.deadline) {
		delete(s.entries, token)
		return nil
	}
	return e
}

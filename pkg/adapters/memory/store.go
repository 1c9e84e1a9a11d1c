// Package memory provides in-memory implementations of the Accord ports. They
// back tests, examples, and single-process deployments that do not need a
// shared store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/domain"
)

// Store implements ports.HistoryStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]codec.Payload
}

// NewStore creates a new in-memory history store.
func NewStore() *Store {
	return &Store{data: make(map[string]codec.Payload)}
}

// Save persists the payload in memory. Payloads are cloned on write so the
// caller cannot mutate stored bytes afterwards.
func (s *Store) Save(ctx context.Context, runID string, payload codec.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[runID] = payload.Clone()
	return nil
}

// Load retrieves a copy of the payload.
func (s *Store) Load(ctx context.Context, runID string) (codec.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.data[runID]
	if !ok {
		return codec.Payload{}, domain.ErrRunNotFound
	}
	return payload.Clone(), nil
}

// Delete removes the payload.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns the known run IDs in stable order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	sort.Strings(runs)
	return runs, nil
}

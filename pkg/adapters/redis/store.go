// Package redis implements the history store over Redis, for deployments
// where flow history must survive the process and be shared across instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/domain"
)

// Store implements ports.HistoryStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for run history entries.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for run history entries.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis history store with options.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis history store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "accord:run:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(runID string) string {
	return s.prefix + runID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the payload and registers the run in the index set.
func (s *Store) Save(ctx context.Context, runID string, payload codec.Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(runID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), runID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving run %s: %w", runID, err)
	}
	return nil
}

// Load retrieves the payload for a run ID.
func (s *Store) Load(ctx context.Context, runID string) (codec.Payload, error) {
	data, err := s.client.Get(ctx, s.key(runID)).Bytes()
	if errors.Is(err, backend.Nil) {
		// Expired entries are lazily removed from the index.
		s.client.SRem(ctx, s.indexKey(), runID)
		return codec.Payload{}, domain.ErrRunNotFound
	}
	if err != nil {
		return codec.Payload{}, fmt.Errorf("loading run %s: %w", runID, err)
	}

	var payload codec.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return codec.Payload{}, fmt.Errorf("unmarshalling run %s: %w", runID, err)
	}
	return payload, nil
}

// Delete removes the payload and its index entry.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(runID))
	pipe.SRem(ctx, s.indexKey(), runID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting run %s: %w", runID, err)
	}
	return nil
}

// List returns the indexed run IDs, pruning entries whose keys have expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	alive := make([]string, 0, len(ids))
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("checking run %s: %w", id, err)
		}
		if exists == 0 {
			s.client.SRem(ctx, s.indexKey(), id)
			continue
		}
		alive = append(alive, id)
	}
	return alive, nil
}

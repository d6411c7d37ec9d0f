// Package memory provides an in-process db.Store for single-instance
// deployments and local development.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/recipedex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps hashes in a size-bounded LRU with a single TTL for all keys.
// The per-call ttl of HSetWithTTL is ignored; every write refreshes the
// store-wide TTL instead.
type Store struct {
	mu     sync.Mutex
	hashes *expirable.LRU[string, map[string]string]
	closed bool
}

// Config holds memory store limits.
type Config struct {
	MaxKeys int           // 0 = 10000
	TTL     time.Duration // 0 = no expiry
}

// NewStore creates an in-memory store.
func NewStore(cfg Config) *Store {
	size := cfg.MaxKeys
	if size <= 0 {
		size = 10000
	}
	return &Store{
		hashes: expirable.NewLRU[string, map[string]string](size, nil, cfg.TTL),
	}
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close drops all data.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.hashes.Purge()
}

// WaitForReady returns immediately; an in-process store is always ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// HSetWithTTL merges fields into the hash at key.
func (s *Store) HSetWithTTL(_ context.Context, key string, fields map[string]string, _ time.Duration) error {
	if len(fields) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpHSet, Err: db.ErrClosed}
	}

	next := make(map[string]string, len(fields))
	if cur, ok := s.hashes.Get(key); ok {
		maps.Copy(next, cur)
	}
	maps.Copy(next, fields)
	s.hashes.Add(key, next)
	return nil
}

// HGetAll returns a copy of the hash at key, empty when missing.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpHGetAll, Err: db.ErrClosed}
	}

	out := make(map[string]string)
	if cur, ok := s.hashes.Get(key); ok {
		maps.Copy(out, cur)
	}
	return out, nil
}

// HDel removes fields from the hash at key.
func (s *Store) HDel(_ context.Context, key string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpHDel, Err: db.ErrClosed}
	}

	cur, ok := s.hashes.Peek(key)
	if !ok || len(fields) == 0 {
		return nil
	}
	next := maps.Clone(cur)
	for _, f := range fields {
		delete(next, f)
	}
	if len(next) == 0 {
		s.hashes.Remove(key)
		return nil
	}
	s.hashes.Add(key, next)
	return nil
}

// Del deletes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	s.hashes.Remove(key)
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, &db.Error{Op: db.OpExists, Err: db.ErrClosed}
	}
	_, ok := s.hashes.Peek(key)
	return ok, nil
}

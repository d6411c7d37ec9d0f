package session

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

const createdField = "created_at"

// store is the consumer interface for session persistence (ISP).
type store interface {
	HSetWithTTL(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo persists search session slots as one hash per session.
type Repo struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a session repository. Every write refreshes the session TTL.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string {
	return domain.KeyPrefix + "session:" + id
}

// Create registers an empty session so that Exists reports it.
func (r *Repo) Create(ctx context.Context, id string) error {
	fields := map[string]string{createdField: r.now().UTC().Format(time.RFC3339)}
	if err := r.store.HSetWithTTL(ctx, sessionKey(id), fields, r.ttl); err != nil {
		return fmt.Errorf("create session %s: %w", id, err)
	}
	return nil
}

// Exists reports whether the session is still persisted.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, sessionKey(id))
	if err != nil {
		return false, fmt.Errorf("check session %s: %w", id, err)
	}
	return ok, nil
}

// Delete removes the session and all of its slots.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Slots returns the saved-state view of one session.
func (r *Repo) Slots(id string) *Slots {
	return &Slots{repo: r, key: sessionKey(id)}
}

// Slots is the key-value saved state of a single session.
type Slots struct {
	repo *Repo
	key  string
}

// Load returns every saved slot. Bookkeeping fields are not included.
func (s *Slots) Load(ctx context.Context) (map[string]string, error) {
	m, err := s.repo.store.HGetAll(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load slots %s: %w", s.key, err)
	}
	delete(m, createdField)
	return m, nil
}

// Set writes one slot.
func (s *Slots) Set(ctx context.Context, slot, value string) error {
	if err := s.repo.store.HSetWithTTL(ctx, s.key, map[string]string{slot: value}, s.repo.ttl); err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Clear removes one slot.
func (s *Slots) Clear(ctx context.Context, slot string) error {
	if err := s.repo.store.HDel(ctx, s.key, slot); err != nil {
		return fmt.Errorf("clear slot %s: %w", slot, err)
	}
	return nil
}

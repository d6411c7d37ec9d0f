package redis

import (
	"context"
	"time"

	"github.com/kailas-cloud/recipedex/internal/db"
)

// HSetWithTTL sets hash fields and the key expiry in a single DoMulti round-trip.
// ttl <= 0 leaves the key without expiry.
func (s *Store) HSetWithTTL(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	if len(fields) == 0 {
		return nil
	}

	hset := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		hset = hset.FieldValue(k, v)
	}

	if ttl <= 0 {
		if err := s.do(ctx, hset.Build()).Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: err}
		}
		return nil
	}

	expire := s.b().Expire().Key(key).Seconds(expireSeconds(ttl)).Build()
	results := s.client.DoMulti(ctx, hset.Build(), expire)
	if err := results[0].Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	if err := results[1].Error(); err != nil {
		return &db.Error{Op: db.OpExpire, Err: err}
	}
	return nil
}

// expireSeconds rounds ttl up to whole seconds. EXPIRE 0 deletes the key.
func expireSeconds(ttl time.Duration) int64 {
	return int64((ttl + time.Second - 1) / time.Second)
}

// HGetAll returns all fields of a hash.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}

// HDel removes specific fields from a hash.
func (s *Store) HDel(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	cmd := s.b().Hdel().Key(key).Field(fields...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpHDel, Err: err}
	}
	return nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	cmd := s.b().Exists().Key(key).Build()
	count, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return count > 0, nil
}

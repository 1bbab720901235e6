package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"shopping-agent/internal/models"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisStore keeps one JSON document per session under prefix+id. The key TTL mirrors the
// session TTL; Sweep also drops records whose last access is older than the TTL.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *RedisStore) WithClock(now func() time.Time) *RedisStore {
	s.now = now
	return s
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	key := s.key(id)
	data, err := s.client.GetEx(ctx, key, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	sess, err := decode(data)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if sess.IsExpired(now, s.ttl) {
		_ = s.client.Del(ctx, key).Err()
		return nil, ErrSessionNotFound
	}

	sess.Touch(now)
	if err := s.write(ctx, sess, redis.KeepTTL); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess *models.Session) error {
	return s.write(ctx, sess, s.ttl)
}

func (s *RedisStore) write(ctx context.Context, sess *models.Session, expiration time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(sess.ID), err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", s.key(id), err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) Sweep(ctx context.Context) (int, error) {
	keys, err := s.scan(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	removed := 0
	for _, key := range keys {
		sess, err := s.peek(ctx, key)
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err == nil && !sess.IsExpired(now, s.ttl) {
			continue
		}
		// undecodable records are swept as well
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return removed, fmt.Errorf("redis del %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*models.Session, error) {
	keys, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*models.Session, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		sess, err := s.peek(ctx, key)
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err != nil {
			var se *decodeError
			if errors.As(err, &se) {
				continue
			}
			return nil, err
		}
		if !sess.IsExpired(now, s.ttl) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// peek reads a record without refreshing it.
func (s *RedisStore) peek(ctx context.Context, key string) (*models.Session, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return decode(data)
}

func (s *RedisStore) scan(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s*: %w", s.prefix, err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode session: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

func decode(data []byte) (*models.Session, error) {
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, &decodeError{err: err}
	}
	return &sess, nil
}

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopping-agent/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source shared by a store under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type storeFactory func(t *testing.T, ttl time.Duration, clock *fakeClock) Store

func storeFactories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, ttl time.Duration, clock *fakeClock) Store {
			return NewMemoryStore(ttl).WithClock(clock.Now)
		},
		"redis": func(t *testing.T, ttl time.Duration, clock *fakeClock) Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { client.Close() })
			return NewRedisStore(client, "test:session:", ttl).WithClock(clock.Now)
		},
	}
}

// ==========================
// Store contract
// ==========================

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("put get round trip", func(t *testing.T) {
				clock := newFakeClock()
				store := factory(t, time.Hour, clock)

				sess := models.NewSession("s1", clock.Now())
				sess.Preferences.Brands = []string{"Apple"}
				sess.AppendMessage(models.Message{Role: models.RoleUser, Text: "hi", Timestamp: clock.Now()}, 0)
				require.NoError(t, store.Put(ctx, sess))

				clock.Advance(10 * time.Minute)
				got, err := store.Get(ctx, "s1")
				require.NoError(t, err)
				assert.Equal(t, []string{"Apple"}, got.Preferences.Brands)
				assert.Len(t, got.ConversationHistory, 1)
				assert.True(t, got.LastAccessed.Equal(clock.Now()))
				assert.Equal(t, "ja", got.Settings.Language)
			})

			t.Run("returned sessions are copies", func(t *testing.T) {
				clock := newFakeClock()
				store := factory(t, time.Hour, clock)
				require.NoError(t, store.Put(ctx, models.NewSession("s1", clock.Now())))

				got, err := store.Get(ctx, "s1")
				require.NoError(t, err)
				got.Preferences.Brands = []string{"Sony"}

				again, err := store.Get(ctx, "s1")
				require.NoError(t, err)
				assert.Empty(t, again.Preferences.Brands)
			})

			t.Run("missing", func(t *testing.T) {
				store := factory(t, time.Hour, newFakeClock())
				_, err := store.Get(ctx, "nope")
				assert.ErrorIs(t, err, ErrSessionNotFound)
				assert.ErrorIs(t, store.Delete(ctx, "nope"), ErrSessionNotFound)
			})

			t.Run("access keeps a session alive", func(t *testing.T) {
				clock := newFakeClock()
				store := factory(t, time.Hour, clock)
				require.NoError(t, store.Put(ctx, models.NewSession("s1", clock.Now())))

				for i := 0; i < 3; i++ {
					clock.Advance(50 * time.Minute)
					_, err := store.Get(ctx, "s1")
					require.NoError(t, err)
				}
			})

			t.Run("expired sessions are not returned", func(t *testing.T) {
				clock := newFakeClock()
				store := factory(t, time.Hour, clock)
				require.NoError(t, store.Put(ctx, models.NewSession("s1", clock.Now())))

				clock.Advance(61 * time.Minute)
				_, err := store.Get(ctx, "s1")
				assert.ErrorIs(t, err, ErrSessionNotFound)
			})

			t.Run("sweep and list", func(t *testing.T) {
				clock := newFakeClock()
				store := factory(t, time.Hour, clock)
				require.NoError(t, store.Put(ctx, models.NewSession("old", clock.Now())))
				clock.Advance(45 * time.Minute)
				require.NoError(t, store.Put(ctx, models.NewSession("fresh", clock.Now())))
				clock.Advance(30 * time.Minute)

				removed, err := store.Sweep(ctx)
				require.NoError(t, err)
				assert.Equal(t, 1, removed)

				live, err := store.List(ctx)
				require.NoError(t, err)
				require.Len(t, live, 1)
				assert.Equal(t, "fresh", live[0].ID)
			})

			t.Run("delete", func(t *testing.T) {
				clock := newFakeClock()
				store := factory(t, time.Hour, clock)
				require.NoError(t, store.Put(ctx, models.NewSession("s1", clock.Now())))

				require.NoError(t, store.Delete(ctx, "s1"))
				_, err := store.Get(ctx, "s1")
				assert.ErrorIs(t, err, ErrSessionNotFound)
			})
		})
	}
}

// ==========================
// Redis specifics
// ==========================

func TestRedisStore_KeyTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "shopping:session:", time.Hour)
	require.NoError(t, store.Put(context.Background(), models.NewSession("s1", time.Now())))

	assert.True(t, mr.Exists("shopping:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("shopping:session:s1"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Failures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	t.Run("get", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, "p:", time.Hour)
		mock.ExpectGetEx("p:s1", time.Hour).SetErr(boom)

		_, err := store.Get(ctx, "s1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSessionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get nil is not found", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, "p:", time.Hour)
		mock.ExpectGetEx("p:s1", time.Hour).RedisNil()

		_, err := store.Get(ctx, "s1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("corrupt record", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, "p:", time.Hour)
		mock.ExpectGetEx("p:s1", time.Hour).SetVal("{not json")

		_, err := store.Get(ctx, "s1")
		assert.Error(t, err)
	})

	t.Run("scan", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, "p:", time.Hour)
		mock.ExpectScan(0, "p:*", scanBatch).SetErr(boom)

		_, err := store.List(ctx)
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, "p:", time.Hour)
		mock.ExpectDel("p:s1").SetErr(boom)

		err := store.Delete(ctx, "s1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSessionNotFound)
	})
}

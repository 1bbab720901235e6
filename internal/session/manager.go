package session

import (
	"context"
	"errors"
	"time"

	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/common/metrics"
	"shopping-agent/internal/models"

	"github.com/google/uuid"
)

type Options struct {
	MaxHistory       int
	MaxSearchHistory int
}

func DefaultOptions() Options {
	return Options{
		MaxHistory:       models.DefaultMaxHistory,
		MaxSearchHistory: models.DefaultMaxSearchHistory,
	}
}

type Stats struct {
	ActiveSessions       int     `json:"total_sessions"`
	TotalConversations   int     `json:"total_conversations"`
	TotalFavorites       int     `json:"total_favorites"`
	AverageConversations float64 `json:"average_conversations_per_session"`
	AverageFavorites     float64 `json:"average_favorites_per_session"`
}

// Manager serializes read-modify-write cycles per session id. Turns of different sessions
// run in parallel.
type Manager struct {
	store  Store
	opts   Options
	locks  *keyedMutex
	now    func() time.Time
	logger logger.Logger
}

func NewManager(store Store, opts Options, log logger.Logger) *Manager {
	return &Manager{
		store:  store,
		opts:   opts,
		locks:  newKeyedMutex(),
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "session-manager"}),
	}
}

func (m *Manager) Options() Options {
	return m.opts
}

// Create stores a fresh session under a new random id.
func (m *Manager) Create(ctx context.Context) (*models.Session, error) {
	sess := models.NewSession(uuid.NewString(), m.now())
	if err := m.store.Put(ctx, sess); err != nil {
		return nil, apperrors.NewSessionStoreError("put", err)
	}
	m.logger.Info("session created", map[string]interface{}{"sessionId": sess.ID})
	return sess, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*models.Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, m.storeError("get", id, err)
	}
	return sess, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.locks.Lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return m.storeError("delete", id, err)
	}
	m.logger.Info("session deleted", map[string]interface{}{"sessionId": id})
	return nil
}

// Update runs fn on a copy of the session and stores the copy only if fn succeeds and ctx
// is still live. An unknown id is created when createIfMissing is set.
func (m *Manager) Update(ctx context.Context, id string, createIfMissing bool, fn func(*models.Session) error) (*models.Session, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	current, err := m.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound) && createIfMissing:
		current = models.NewSession(id, m.now())
		m.logger.Info("session created on first contact", map[string]interface{}{"sessionId": id})
	case err != nil:
		return nil, m.storeError("get", id, err)
	}

	work := current.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	work.Touch(m.now())

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("session update", err)
	}
	if err := m.store.Put(ctx, work); err != nil {
		return nil, apperrors.NewSessionStoreError("put", err)
	}
	return work.Clone(), nil
}

func (m *Manager) storeError(op, id string, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return apperrors.NewSessionNotFoundError(id)
	}
	return apperrors.NewSessionStoreError(op, err)
}

// Sweep removes expired sessions once and refreshes the session gauges.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	removed, err := m.store.Sweep(ctx)
	if err != nil {
		return removed, apperrors.NewSessionStoreError("sweep", err)
	}
	metrics.SessionsSwept.Add(float64(removed))

	if live, err := m.store.List(ctx); err == nil {
		metrics.ActiveSessions.Set(float64(len(live)))
	}
	if removed > 0 {
		m.logger.Info("expired sessions swept", map[string]interface{}{"removed": removed})
	}
	return removed, nil
}

// StartSweeper sweeps every interval until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.Sweep(ctx); err != nil {
					m.logger.Warn("session sweep failed", map[string]interface{}{"error": err})
				}
			}
		}
	}()
}

// Stats aggregates over the live sessions. Conversations count user messages.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	live, err := m.store.List(ctx)
	if err != nil {
		return Stats{}, apperrors.NewSessionStoreError("list", err)
	}

	st := Stats{ActiveSessions: len(live)}
	for _, s := range live {
		st.TotalConversations += s.UserMessageCount()
		st.TotalFavorites += len(s.Favorites)
	}
	if st.ActiveSessions > 0 {
		st.AverageConversations = float64(st.TotalConversations) / float64(st.ActiveSessions)
		st.AverageFavorites = float64(st.TotalFavorites) / float64(st.ActiveSessions)
	}
	return st, nil
}

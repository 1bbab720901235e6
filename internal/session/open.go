package session

import (
	"context"
	"fmt"

	"shopping-agent/internal/common/config"
	"shopping-agent/internal/common/database"
	"shopping-agent/internal/common/logger"
)

// Open builds the store selected by session.store. The returned func releases the backend.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, func() error, error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, nil, fmt.Errorf("redis session store unreachable: %w", err)
		}
		log.Info("sessions stored in redis", map[string]interface{}{
			"address":  cfg.Database.Redis.Address,
			"ttlHours": cfg.Session.TTLHours,
		})
		return NewRedisStore(rc.Client, cfg.Session.KeyPrefix, cfg.Session.TTL()), rc.Close, nil
	default:
		log.Info("sessions stored in memory", map[string]interface{}{"ttlHours": cfg.Session.TTLHours})
		return NewMemoryStore(cfg.Session.TTL()), func() error { return nil }, nil
	}
}

// OptionsFromConfig maps the history limits of the session config.
func OptionsFromConfig(cfg config.SessionConfig) Options {
	opts := DefaultOptions()
	if cfg.MaxHistory > 0 {
		opts.MaxHistory = cfg.MaxHistory
	}
	if cfg.MaxSearchHistory > 0 {
		opts.MaxSearchHistory = cfg.MaxSearchHistory
	}
	return opts
}

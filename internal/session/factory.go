package session

import (
	"fmt"

	"saas-admin-console/internal/config"
)

// NewStore selects the configured backend.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.SessionStore {
	case "file":
		return NewFileStore(cfg.SessionFile), nil
	case "redis":
		return NewRedisStore(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisTokenKey = "admin_console:token"
	redisUserKey  = "admin_console:user"

	redisOpTimeout = 3 * time.Second
)

// RedisStore keeps the two session keys in redis, for console hosts that
// share a session across machines. Save and Clear run both keys in one
// transaction so readers never observe a token without its profile.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (rs *RedisStore) Load() (*Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	pipe := rs.rdb.Pipeline()
	tokenCmd := pipe.Get(ctx, redisTokenKey)
	userCmd := pipe.Get(ctx, redisUserKey)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load session from redis: %w", err)
	}

	token, _ := tokenCmd.Result()
	userJSON, _ := userCmd.Result()

	s := decode(token, userJSON)
	if s == nil {
		// Fail closed: partial or malformed data is removed.
		if token != "" || userJSON != "" {
			if err := rs.Clear(); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	return s, nil
}

func (rs *RedisStore) Save(s *Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	pipe := rs.rdb.TxPipeline()
	pipe.Set(ctx, redisTokenKey, s.Token, 0)
	pipe.Set(ctx, redisUserKey, encodeUser(s.User), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

func (rs *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := rs.rdb.Del(ctx, redisTokenKey, redisUserKey).Err(); err != nil {
		return fmt.Errorf("clear session in redis: %w", err)
	}
	return nil
}

func (rs *RedisStore) Close() error {
	return rs.rdb.Close()
}

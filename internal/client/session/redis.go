package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "gophchat:session:"

// RedisStore keeps the session in Redis, e.g. when several client processes
// on one host share a login.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// OpenRedisStore parses a redis:// URL and checks the server is reachable.
func OpenRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, ""), nil
}

func (s *RedisStore) SetCurrentUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return ErrNilUser
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.rdb.Set(ctx, s.prefix+keyCurrentUser, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveSessionToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.rdb.Set(ctx, s.prefix+keySessionToken, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *RedisStore) CurrentUser(ctx context.Context) (*models.User, error) {
	data, err := s.rdb.Get(ctx, s.prefix+keyCurrentUser).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("redis get user: %w", err)
	}

	u := &models.User{}
	if err := json.Unmarshal(data, u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptValue, err)
	}
	return u, nil
}

func (s *RedisStore) SessionToken(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.prefix+keySessionToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.prefix+keyCurrentUser, s.prefix+keySessionToken).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

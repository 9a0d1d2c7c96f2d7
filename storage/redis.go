package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/artmatch"
)

const defaultRedisPrefix = "artmatch:"

var _ Storage = (*Redis)(nil)

// A Redis stores values in Redis under a common key prefix.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the Redis server cfg.Redis points at
// and confirms it is reachable.
func NewRedis(cfg Config) (*Redis, error) {
	var opts *redis.Options
	switch {
	case cfg.Redis.URL != "":
		var err error
		opts, err = redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: redis url: %s", artmatch.ErrBadConfig, err)
		}

	case cfg.Redis.Addr != "":
		opts = &redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}

	default:
		return nil, fmt.Errorf("%w: redis address required", artmatch.ErrBadConfig)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping failed: %s", artmatch.ErrBadConfig, err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	return &Redis{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

func (s *Redis) key(k string) string { return s.prefix + k }

// Get returns the value stored under key.
func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: redis get %q: %s", artmatch.ErrUnexpected, key, err)
	}

	return b, nil
}

// Set stores val under key, expiring it after the configured TTL.
func (s *Redis) Set(ctx context.Context, key string, val []byte) error {
	if err := s.client.Set(ctx, s.key(key), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set %q: %s", artmatch.ErrUnexpected, key, err)
	}

	return nil
}

// Delete removes the value stored under key.
func (s *Redis) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: redis del %q: %s", artmatch.ErrUnexpected, key, err)
	}

	return nil
}

// Close closes the connection pool.
func (s *Redis) Close() error { return s.client.Close() }

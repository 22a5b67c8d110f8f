package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"undercover/internal/domain"
)

// DefaultRedisPrefix namespaces lobby keys
const DefaultRedisPrefix = "undercover:lobby:"

// RedisStore keeps each lobby as a JSON string value. Writes use
// WATCH/MULTI so a concurrent writer aborts the transaction.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration // 0 keeps lobbies forever
}

// NewRedisStore wraps an existing client
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// OpenRedis parses a redis:// URL, connects and pings
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", opt.Addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) key(code string) string {
	return s.prefix + NormalizeCode(code)
}

// Get loads a lobby document
func (s *RedisStore) Get(ctx context.Context, code string) (*domain.Lobby, error) {
	data, err := s.rdb.Get(ctx, s.key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", code, err)
	}
	return decode(data)
}

// Create stores a new lobby with SET NX
func (s *RedisStore) Create(ctx context.Context, lobby *domain.Lobby) error {
	data, err := encode(lobby, 1)
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, s.key(lobby.Code), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", lobby.Code, err)
	}
	if !ok {
		return ErrExists
	}
	lobby.Version = 1
	return nil
}

// CompareAndSwap replaces the document if its version is unchanged
func (s *RedisStore) CompareAndSwap(ctx context.Context, lobby *domain.Lobby) error {
	key := s.key(lobby.Code)
	var next int64

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		version, err := documentVersion(current)
		if err != nil {
			return err
		}
		if version != lobby.Version {
			return ErrConflict
		}

		next = version + 1
		data, err := encode(lobby, next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return ErrConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case err != nil:
		return fmt.Errorf("redis cas %s: %w", lobby.Code, err)
	}

	lobby.Version = next
	return nil
}

// List scans for lobby keys
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var codes []string
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return codes, nil
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

// Hash fields under each table key.
const (
	redisRowsField      = "rows"
	redisUpdatedAtField = "updated_at"
)

// RedisStore keeps each table as a hash holding the JSON-encoded rows and
// the write time in unix microseconds.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore wraps client. Keys are "<prefix>:<name>". The store owns
// the client.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

// Exists reports whether the table key is present.
func (s *RedisStore) Exists(ctx context.Context, name string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", s.key(name), err)
	}
	return n > 0, nil
}

// LastModified returns the time of the last Write.
func (s *RedisStore) LastModified(ctx context.Context, name string) (time.Time, error) {
	micros, err := s.client.HGet(ctx, s.key(name), redisUpdatedAtField).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get %s updated_at: %w", s.key(name), err)
	}
	return time.UnixMicro(micros), nil
}

// Read decodes the stored rows.
func (s *RedisStore) Read(ctx context.Context, name string) (model.Table, error) {
	data, err := s.client.HGet(ctx, s.key(name), redisRowsField).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s rows: %w", s.key(name), err)
	}

	table := model.Table{}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", s.key(name), err)
	}
	return table, nil
}

// Write replaces the rows and the write time in a single HSET.
func (s *RedisStore) Write(ctx context.Context, name string, table model.Table) error {
	if table == nil {
		table = model.Table{}
	}
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", name, err)
	}

	err = s.client.HSet(ctx, s.key(name),
		redisRowsField, data,
		redisUpdatedAtField, s.now().UnixMicro(),
	).Err()
	if err != nil {
		return fmt.Errorf("set %s: %w", s.key(name), err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

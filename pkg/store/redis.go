package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "flowsmith:workflow:"
	recordTTL       = 24 * time.Hour
)

// RedisStore keeps records in Redis with a TTL; generated documents are
// retrievable for a day, not archived forever.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Save(ctx context.Context, record *Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode workflow record: %w", err)
	}

	return s.client.Set(ctx, recordKeyPrefix+record.ID, payload, recordTTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	payload, err := s.client.Get(ctx, recordKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to decode workflow record: %w", err)
	}

	return &record, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

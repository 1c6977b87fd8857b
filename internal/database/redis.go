package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/dataset"
)

// RedisAdapter is the key-value backend. Records are stored as JSON under
// keys of the form <prefix><seq>, e.g. "record:1".
type RedisAdapter struct {
	client *redis.Client
	prefix string
}

type redisRecord struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (a *RedisAdapter) Name() string { return "redis" }

func (a *RedisAdapter) key(seq int64) string {
	return fmt.Sprintf("%s%d", a.prefix, seq)
}

func (a *RedisAdapter) Connect(ctx context.Context, cfg config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("redis: ping %s: %w", cfg.Redis.Addr(), err)
	}
	a.client = client
	a.prefix = cfg.Redis.KeyPrefix
	return nil
}

func (a *RedisAdapter) Close() error {
	return a.client.Close()
}

// Reset deletes only keys under the benchmark's prefix. Never FLUSHDB: the
// logical database may hold unrelated data.
func (a *RedisAdapter) Reset(ctx context.Context) error {
	iter := a.client.Scan(ctx, 0, a.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := a.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis: reset: delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis: reset: scan %s*: %w", a.prefix, err)
	}
	return nil
}

func (a *RedisAdapter) Create(ctx context.Context, rec dataset.Record) (int64, error) {
	data, err := json.Marshal(redisRecord{Name: rec.Name, Price: rec.Price, Quantity: rec.Quantity})
	if err != nil {
		return 0, fmt.Errorf("redis: create record %d: %w", rec.Seq, err)
	}
	if err := a.client.Set(ctx, a.key(rec.Seq), data, 0).Err(); err != nil {
		return 0, fmt.Errorf("redis: create record %d: %w", rec.Seq, err)
	}
	return rec.Seq, nil
}

func (a *RedisAdapter) Read(ctx context.Context, seq int64) (dataset.Record, error) {
	data, err := a.client.Get(ctx, a.key(seq)).Bytes()
	if errors.Is(err, redis.Nil) {
		return dataset.Record{}, fmt.Errorf("redis: read record %d: %w", seq, ErrNotFound)
	}
	if err != nil {
		return dataset.Record{}, fmt.Errorf("redis: read record %d: %w", seq, err)
	}
	var doc redisRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return dataset.Record{}, fmt.Errorf("redis: read record %d: %w", seq, err)
	}
	return dataset.Record{Seq: seq, Name: doc.Name, Price: doc.Price, Quantity: doc.Quantity}, nil
}

func (a *RedisAdapter) Update(ctx context.Context, seq int64, patch dataset.Patch) error {
	data, err := json.Marshal(redisRecord{Name: patch.Name, Price: patch.Price, Quantity: patch.Quantity})
	if err != nil {
		return fmt.Errorf("redis: update record %d: %w", seq, err)
	}
	// SET XX only succeeds when the key already exists.
	ok, err := a.client.SetXX(ctx, a.key(seq), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis: update record %d: %w", seq, err)
	}
	if !ok {
		return fmt.Errorf("redis: update record %d: %w", seq, ErrNotFound)
	}
	return nil
}

func (a *RedisAdapter) Delete(ctx context.Context, seq int64) error {
	n, err := a.client.Del(ctx, a.key(seq)).Result()
	if err != nil {
		return fmt.Errorf("redis: delete record %d: %w", seq, err)
	}
	if n == 0 {
		return fmt.Errorf("redis: delete record %d: %w", seq, ErrNotFound)
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/pkg/util"
)

// RedisStore keeps the snapshot document under a single key, overwritten in
// full on every persist.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis using the provided configuration.
func NewRedisStore(cfg config.RedisConfig, key string, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisStore{client: client, key: key}
}

// Load reads the snapshot key, initializing empty collections when the key
// does not exist yet.
func (r *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSnapshot(), nil
	}
	if err != nil {
		return nil, util.NewInternalError(fmt.Errorf("read snapshot: %w", err))
	}

	snapshot := &Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, util.NewInternalError(fmt.Errorf("decode snapshot: %w", err))
	}
	snapshot.normalize()
	return snapshot, nil
}

// Persist overwrites the snapshot key with the full document.
func (r *RedisStore) Persist(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return util.NewInternalError(fmt.Errorf("encode snapshot: %w", err))
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return util.NewInternalError(fmt.Errorf("write snapshot: %w", err))
	}
	return nil
}

// Ping verifies Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *RedisStore) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}

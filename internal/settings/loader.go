package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisHashKey is the Redis hash holding one field per setting.
const DefaultRedisHashKey = "evalrules:settings"

// Loader fetches a fresh snapshot from the settings store.
// Loading once per operation lets configuration change without restarts.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// StaticLoader always returns the same snapshot.
type StaticLoader struct {
	snap *Snapshot
}

// NewStaticLoader creates a loader for snap, or an empty snapshot when nil.
func NewStaticLoader(snap *Snapshot) *StaticLoader {
	if snap == nil {
		snap = EmptySnapshot()
	}
	return &StaticLoader{snap: snap}
}

// Load implements Loader.
func (l *StaticLoader) Load(_ context.Context) (*Snapshot, error) { return l.snap, nil }

// StoreLoader snapshots a Store on every load.
type StoreLoader struct {
	store *Store
}

// NewStoreLoader creates a loader reading from store.
func NewStoreLoader(store *Store) *StoreLoader { return &StoreLoader{store: store} }

// Load implements Loader.
func (l *StoreLoader) Load(_ context.Context) (*Snapshot, error) { return l.store.Snapshot(), nil }

// RedisLoader reads settings from a Redis hash whose fields are setting keys
// and whose values use the Encode format.
type RedisLoader struct {
	client redis.Cmdable
	key    string
	logger *slog.Logger
}

// NewRedisLoader creates a loader for the hash at key.
// An empty key selects DefaultRedisHashKey.
func NewRedisLoader(client redis.Cmdable, key string, logger *slog.Logger) *RedisLoader {
	if key == "" {
		key = DefaultRedisHashKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLoader{client: client, key: key, logger: logger}
}

// Load implements Loader. A missing hash yields an empty snapshot.
func (l *RedisLoader) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := l.client.HGetAll(ctx, l.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load settings hash %q: %w", l.key, err)
	}

	snap, unknown, err := ParseSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("parse settings hash %q: %w", l.key, err)
	}
	if len(unknown) > 0 {
		l.logger.WarnContext(ctx, "ignoring unknown settings",
			"hash", l.key,
			"keys", unknown)
	}
	return snap, nil
}

// Save writes every value of snap into the hash at key.
func (l *RedisLoader) Save(ctx context.Context, snap *Snapshot) error {
	enc := snap.Encoded()
	if len(enc) == 0 {
		return nil
	}
	values := make([]any, 0, len(enc)*2)
	for k, v := range enc {
		values = append(values, k, v)
	}
	if err := l.client.HSet(ctx, l.key, values...).Err(); err != nil {
		return fmt.Errorf("save settings hash %q: %w", l.key, err)
	}
	return nil
}

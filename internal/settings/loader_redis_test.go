//go:build integration
// +build integration

package settings_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	redisContainer "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/ahrav/go-evalrules/internal/settings"
)

// setupRedisContainer starts a Redis container and returns a connected client.
// The container is terminated when the test completes.
func setupRedisContainer(t *testing.T) *redis.Client {
	ctx := context.Background()

	container, err := redisContainer.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	_, err = client.Ping(ctx).Result()
	require.NoError(t, err)

	return client
}

func TestRedisLoader_RealRedis(t *testing.T) {
	client := setupRedisContainer(t)
	ctx := context.Background()

	loader := settings.NewRedisLoader(client, "test:settings", nil)

	empty, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len(), "missing hash loads as empty snapshot")

	snap, err := settings.NewSnapshot(map[settings.Key]any{
		settings.EvalUseStopDate:      true,
		settings.EvalDefaultStartHour: 8,
		settings.FromEmailAddress:     "eval@example.edu",
	})
	require.NoError(t, err)
	require.NoError(t, loader.Save(ctx, snap))

	got, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.ToMap(), got.ToMap())

	require.NoError(t, client.HSet(ctx, "test:settings", "LEGACY_FLAG", "1").Err())
	got, err = loader.Load(ctx)
	require.NoError(t, err, "unknown fields are skipped")
	assert.Equal(t, 3, got.Len())

	require.NoError(t, client.HSet(ctx, "test:settings", string(settings.EvalUseViewDate), "maybe").Err())
	_, err = loader.Load(ctx)
	assert.ErrorIs(t, err, settings.ErrWrongKind)
}

//go:build integration

package registry_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/redis"
	"github.com/dmitrymomot/jobrpc/pkg/registry"
)

func getRedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379/0"
}

func TestRedis(t *testing.T) {
	ctx := context.Background()

	client, err := redis.Open(ctx, getRedisURL())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{now: time.Now()}
	s := registry.NewRedis(client,
		registry.WithKeyPrefix("jobrpc-test:"+uuid.NewString()),
		registry.WithTTL(90*time.Second),
		registry.WithClock(clock.Now),
	)

	require.NoError(t, s.Register(ctx, param("http://b:9999/")))
	require.NoError(t, s.Register(ctx, param("http://a:9999/")))

	got, err := s.List(ctx, adminbiz.RegistryTypeExecutor, "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a:9999/", "http://b:9999/"}, got)

	require.NoError(t, s.Remove(ctx, param("http://b:9999/")))
	got, err = s.List(ctx, adminbiz.RegistryTypeExecutor, "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a:9999/"}, got)

	clock.Advance(2 * time.Minute)
	got, err = s.List(ctx, adminbiz.RegistryTypeExecutor, "demo")
	require.NoError(t, err)
	assert.Empty(t, got)
}

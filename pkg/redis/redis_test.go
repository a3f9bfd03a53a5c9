package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "empty", url: "", wantErr: ErrEmptyConnectionURL},
		{name: "http scheme", url: "http://localhost:6379", wantErr: ErrFailedToParseURL},
		{name: "no scheme", url: "localhost:6379", wantErr: ErrFailedToParseURL},
		{name: "invalid port", url: "redis://localhost:notaport", wantErr: ErrFailedToParseURL},
		{name: "invalid database", url: "redis://localhost:6379/notanumber", wantErr: ErrFailedToParseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := Connect(ctx, Config{URL: tt.url})
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, client)
		})
	}
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := Config{
		URL:           "redis://127.0.0.1:1/0",
		RetryAttempts: 2,
		RetryInterval: 10 * time.Millisecond,
		DialTimeout:   100 * time.Millisecond,
	}

	client, err := Connect(context.Background(), cfg)
	require.ErrorIs(t, err, ErrConnectionFailed)
	require.Nil(t, client)
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	got := Config{URL: "redis://x", PoolSize: 4}.withDefaults()
	want := DefaultConfig("redis://x")
	want.PoolSize = 4
	require.Equal(t, want, got)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
}

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	c := &closer{err: errors.New("boom")}
	err := Shutdown(c)(context.Background())
	require.EqualError(t, err, "boom")
	require.True(t, c.closed)
}

func TestWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	require.ErrorIs(t, wait(ctx, 10*time.Second), context.Canceled)
	require.Less(t, time.Since(start), time.Second)

	require.NoError(t, wait(context.Background(), 10*time.Millisecond))
}
